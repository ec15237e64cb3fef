// Package authgw is the HTTP client for the external auth service. The core
// consults it for courier eligibility before an application is accepted into
// the matching flow.
package authgw

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// StatusVerified is the only courier status that grants eligibility.
const StatusVerified = "VERIFIED"

const defaultTimeout = 5 * time.Second

// Client implements ports.CourierGateway against the auth service's REST
// API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a gateway client. A nil httpClient falls back to a
// client with a 5 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

type courierStatusResponse struct {
	Status string `json:"status"`
}

// VerifyEligibility calls GET /couriers/{id}/status. Any answer other than
// VERIFIED, including an unknown courier, maps to a Forbidden-kind error;
// transport failures surface as plain errors so callers can distinguish
// "denied" from "unavailable".
func (c *Client) VerifyEligibility(ctx context.Context, courierID kernel.UUID) error {
	url := fmt.Sprintf("%s/couriers/%s/status", c.baseURL, courierID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "build courier status request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "call auth service")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body courierStatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return errors.Wrap(err, "decode courier status")
		}
		if body.Status != StatusVerified {
			return errs.NewForbiddenErrorWithCause(courierID.String(), "apply",
				fmt.Errorf("courier status is %s", body.Status))
		}
		return nil

	case resp.StatusCode == http.StatusNotFound:
		return errs.NewForbiddenErrorWithCause(courierID.String(), "apply",
			fmt.Errorf("courier unknown to auth service"))

	default:
		return errors.Errorf("auth service returned %d", resp.StatusCode)
	}
}

// AllowAll is a ports.CourierGateway that accepts every courier. Used in
// local runs without an auth service.
type AllowAll struct{}

// NewAllowAll creates a gateway that never denies.
func NewAllowAll() *AllowAll {
	return &AllowAll{}
}

// VerifyEligibility always reports eligibility.
func (*AllowAll) VerifyEligibility(context.Context, kernel.UUID) error {
	return nil
}
