package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/samber/lo"

	"github.com/dalewoodman1994/100-percent/models"
)

// The two non-member UN observer states. Together with the UN members they
// make up the canonical 195-entry set the quiz draws from.
var observerStates = map[string]bool{
	"Vatican City": true,
	"Palestine":    true,
}

// RestCountriesClient fetches the country listing from a REST Countries
// compatible provider and normalizes it into the quiz's country model.
type RestCountriesClient struct {
	Client      *http.Client
	baseURL     string
	flagBaseURL string
}

// NewRestCountriesClient creates a client against the given provider base
// URL (e.g. "https://restcountries.com"). Flag image URLs are built from
// flagBaseURL and the country code.
func NewRestCountriesClient(baseURL, flagBaseURL string) *RestCountriesClient {
	return &RestCountriesClient{
		Client:      &http.Client{Timeout: 12 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		flagBaseURL: strings.TrimRight(flagBaseURL, "/"),
	}
}

// restCountry is the provider record shape. Only the fields the quiz needs
// are decoded; anything else the provider sends is ignored.
type restCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2     string `json:"cca2"`
	UNMember bool   `json:"unMember"`
}

// FetchEligibleCountries pulls the bulk country listing, restricted to the
// minimal fields, and returns the normalized eligible set: UN members plus
// the two observer states, deduplicated by code (first occurrence wins).
// Records missing a usable name or code are dropped silently.
func (r *RestCountriesClient) FetchEligibleCountries(ctx context.Context) ([]models.Country, error) {
	endpoint := fmt.Sprintf("%s/v3.1/all?fields=name,cca2,unMember", r.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: provider returned status %d", ErrFetchFailed, resp.StatusCode)
	}

	var records []restCountry
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decoding provider response: %v", ErrFetchFailed, err)
	}

	countries := make([]models.Country, 0, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name.Common)
		code := strings.ToUpper(strings.TrimSpace(rec.CCA2))
		if name == "" || code == "" {
			continue
		}

		countries = append(countries, models.Country{
			Name:         name,
			Code:         code,
			FlagImageURL: fmt.Sprintf("%s/w320/%s.png", r.flagBaseURL, strings.ToLower(code)),
			Eligible:     rec.UNMember || observerStates[name],
		})
	}

	eligible := lo.Filter(countries, func(c models.Country, _ int) bool { return c.Eligible })
	eligible = lo.UniqBy(eligible, func(c models.Country) string { return c.Code })

	return eligible, nil
}
