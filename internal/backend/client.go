package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the marketplace REST backend, the system of record for
// bookings, wallets and installments.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: baseURL,
	}
}

func (c *Client) GetProfile(ctx context.Context, token string) (Profile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/profile/", nil, token)
	if err != nil {
		return Profile{}, err
	}

	var profile Profile
	if err := c.doJSON(req, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (c *Client) GetCalendar(ctx context.Context, token, propertyID string) (CalendarResponse, error) {
	path := "/auth/calendar/" + propertyID + "/"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, token)
	if err != nil {
		return CalendarResponse{}, err
	}

	var calendar CalendarResponse
	if err := c.doJSON(req, &calendar); err != nil {
		return CalendarResponse{}, err
	}
	return calendar, nil
}

func (c *Client) GetWallet(ctx context.Context, token string) (Wallet, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/wallet/", nil, token)
	if err != nil {
		return Wallet{}, err
	}

	var wallet Wallet
	if err := c.doJSON(req, &wallet); err != nil {
		return Wallet{}, err
	}
	return wallet, nil
}

// CreateBooking books a property. With payment_method=wallet the backend debits
// the wallet in the same call.
func (c *Client) CreateBooking(ctx context.Context, token string, payload CreateBookingRequest) (Booking, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/book/", payload, token)
	if err != nil {
		return Booking{}, err
	}

	var booking Booking
	if err := c.doJSON(req, &booking); err != nil {
		return Booking{}, err
	}
	return booking, nil
}

func (c *Client) InitiateBookingPayment(ctx context.Context, token string, payload InitiateBookingPaymentRequest) (PaymentLink, error) {
	return c.initiatePayment(ctx, token, "/auth/booking/initiate-payment/", payload)
}

func (c *Client) InitiateInvestmentPayment(ctx context.Context, token string, payload InitiateInvestmentPaymentRequest) (PaymentLink, error) {
	return c.initiatePayment(ctx, token, "/auth/invest/initiate-payment/", payload)
}

func (c *Client) InitiateInstallmentPayment(ctx context.Context, token, installmentID string, payload InitiateInstallmentPaymentRequest) (PaymentLink, error) {
	path := "/auth/installments/" + installmentID + "/initiate-payment/"
	return c.initiatePayment(ctx, token, path, payload)
}

func (c *Client) InitiateGiftPayment(ctx context.Context, token string, payload InitiateGiftPaymentRequest) (PaymentLink, error) {
	return c.initiatePayment(ctx, token, "/auth/gifts/initiate-payment/", payload)
}

func (c *Client) MarkInstallmentPaid(ctx context.Context, token, installmentID string, payload MarkPaidRequest) error {
	path := "/auth/installments/" + installmentID + "/mark-paid/"
	req, err := c.newRequest(ctx, http.MethodPost, path, payload, token)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

func (c *Client) initiatePayment(ctx context.Context, token, path string, payload any) (PaymentLink, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, payload, token)
	if err != nil {
		return PaymentLink{}, err
	}

	var link PaymentLink
	if err := c.doJSON(req, &link); err != nil {
		return PaymentLink{}, err
	}
	return link, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload any, token string) (*http.Request, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	base.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(path, "/")

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, base.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) doJSON(req *http.Request, dest any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}
