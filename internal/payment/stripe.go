package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// signatureTolerance bounds how old a signed event may be before it is
// rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

// StripeClient talks to Stripe's REST API with form-encoded requests.
type StripeClient struct {
	httpClient    *http.Client
	apiURL        string
	secretKey     string
	webhookSecret string
	now           func() time.Time
}

func NewStripe(apiURL, secretKey, webhookSecret string) *StripeClient {
	return &StripeClient{
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		apiURL:        strings.TrimRight(apiURL, "/"),
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

type stripeIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Error        *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *StripeClient) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	return c.doIntent(ctx, http.MethodPost, c.apiURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
}

func (c *StripeClient) GetIntent(ctx context.Context, reference string) (*Intent, error) {
	return c.doIntent(ctx, http.MethodGet, c.apiURL+"/v1/payment_intents/"+url.PathEscape(reference), nil)
}

func (c *StripeClient) doIntent(ctx context.Context, method, endpoint string, body io.Reader) (*Intent, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var intent stripeIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, fmt.Errorf("decode intent response: %w", err)
	}
	if intent.Error != nil {
		return nil, fmt.Errorf("stripe %s: %s", intent.Error.Type, intent.Error.Message)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("stripe returned status %d", resp.StatusCode)
	}

	return &Intent{
		Reference:    intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       intent.Status,
	}, nil
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"object"`
	} `json:"data"`
}

// VerifyEvent checks the `t=<ts>,v1=<hex hmac>` signature header against
// HMAC-SHA256 of "<ts>.<payload>" keyed with the webhook secret, then
// decodes the event. The timestamp must be within the replay tolerance.
func (c *StripeClient) VerifyEvent(payload []byte, signatureHeader string) (*Event, error) {
	ts, candidates := parseSignatureHeader(signatureHeader)
	if ts == "" || len(candidates) == 0 {
		return nil, ErrInvalidSignature
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, ErrInvalidSignature
	}
	age := c.now().Sub(time.Unix(unix, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return nil, ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	verified := false
	for _, candidate := range candidates {
		sig, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if hmac.Equal(sig, expected) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, ErrInvalidSignature
	}

	var ev stripeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	return &Event{
		ID:        ev.ID,
		Type:      ev.Type,
		Reference: ev.Data.Object.ID,
		Status:    ev.Data.Object.Status,
	}, nil
}

func parseSignatureHeader(header string) (ts string, candidates []string) {
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			candidates = append(candidates, v)
		}
	}
	return ts, candidates
}
