package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// ShopifyClient reads store data through the Shopify Admin API.
type ShopifyClient struct {
	hc         *httpclient.Client
	adminToken string
	apiVersion string
	logger     ectologger.Logger
}

// NewShopifyClient creates a new Shopify Admin API client
func NewShopifyClient(hc *httpclient.Client, adminToken, apiVersion string, logger ectologger.Logger) *ShopifyClient {
	if apiVersion == "" {
		apiVersion = "2024-10"
	}
	return &ShopifyClient{
		hc:         hc,
		adminToken: adminToken,
		apiVersion: apiVersion,
		logger:     logger,
	}
}

// ShopInfo is the reduced shop record included in snapshots.
type ShopInfo struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Currency string `json:"currency"`
	Country  string `json:"country"`
	Plan     string `json:"plan"`
}

// RecentOrder is one of the most recent orders in a snapshot.
type RecentOrder struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	CreatedAt         string `json:"created_at"`
	TotalPrice        string `json:"total_price"`
	Currency          string `json:"currency"`
	FinancialStatus   string `json:"financial_status"`
	FulfillmentStatus string `json:"fulfillment_status"`
}

// StoreSnapshot is a point-in-time view of a Shopify store.
type StoreSnapshot struct {
	Domain       string         `json:"domain"`
	Shop         ShopInfo       `json:"shop"`
	Counts       map[string]any `json:"counts"`
	RecentOrders []RecentOrder  `json:"recentOrders"`
}

// SnapshotInput controls which snapshot sections are fetched. AccessToken
// and APIVersion override the configured defaults when set.
type SnapshotInput struct {
	ShopDomain      string
	AccessToken     string
	APIVersion      string
	IncludeProducts bool
	IncludeOrders   bool
}

// NormalizeShopDomain strips the scheme and any trailing slashes from a shop
// domain.
func NormalizeShopDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimRight(domain, "/")
}

// Snapshot fetches shop info plus optional product/order counts and the five
// most recent orders.
func (s *ShopifyClient) Snapshot(ctx context.Context, input SnapshotInput) (*StoreSnapshot, error) {
	ctx, span := tracing.StartSpan(ctx, "ShopifyClient.Snapshot")
	defer span.End()

	domain := NormalizeShopDomain(input.ShopDomain)
	if domain == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "shopDomain is required")
	}

	token := input.AccessToken
	if token == "" {
		token = s.adminToken
	}
	if token == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Missing SHOPIFY_ADMIN_TOKEN (env) or accessToken in payload")
	}

	version := input.APIVersion
	if version == "" {
		version = s.apiVersion
	}

	base := "https://" + domain + "/admin/api/" + version
	headers := map[string]string{"X-Shopify-Access-Token": token}

	var shopBody struct {
		Shop struct {
			ID          any    `json:"id"`
			Name        string `json:"name"`
			Email       string `json:"email"`
			Currency    string `json:"currency"`
			CountryName string `json:"country_name"`
			PlanName    string `json:"plan_name"`
		} `json:"shop"`
	}
	resp, err := s.hc.GetJSON(ctx, base+"/shop.json", headers, &shopBody)
	if resp != nil {
		metrics.RecordHTTPRequest("shopify", strconv.Itoa(resp.StatusCode), resp.Duration.Seconds())
	}
	if err != nil {
		if resp != nil && !resp.IsSuccess() {
			return nil, fmt.Errorf("Shopify shop lookup failed (%d)", resp.StatusCode)
		}
		return nil, err
	}

	snapshot := &StoreSnapshot{
		Domain: domain,
		Shop: ShopInfo{
			ID:       stringifyID(shopBody.Shop.ID),
			Name:     shopBody.Shop.Name,
			Email:    shopBody.Shop.Email,
			Currency: shopBody.Shop.Currency,
			Country:  shopBody.Shop.CountryName,
			Plan:     shopBody.Shop.PlanName,
		},
		Counts:       map[string]any{},
		RecentOrders: []RecentOrder{},
	}

	if input.IncludeProducts {
		if count, err := s.fetchCount(ctx, base+"/products/count.json", headers); err != nil {
			snapshot.Counts["productsWarning"] = err.Error()
		} else {
			snapshot.Counts["products"] = count
		}
	}

	if input.IncludeOrders {
		if count, err := s.fetchCount(ctx, base+"/orders/count.json?status=any", headers); err != nil {
			snapshot.Counts["ordersWarning"] = err.Error()
		} else {
			snapshot.Counts["orders"] = count
		}

		var ordersBody struct {
			Orders []struct {
				ID                any    `json:"id"`
				Name              string `json:"name"`
				CreatedAt         string `json:"created_at"`
				TotalPrice        string `json:"total_price"`
				Currency          string `json:"currency"`
				FinancialStatus   string `json:"financial_status"`
				FulfillmentStatus string `json:"fulfillment_status"`
			} `json:"orders"`
		}
		ordersResp, err := s.hc.GetJSON(ctx, base+"/orders.json?limit=5&status=any", headers, &ordersBody)
		if ordersResp != nil {
			metrics.RecordHTTPRequest("shopify", strconv.Itoa(ordersResp.StatusCode), ordersResp.Duration.Seconds())
		}
		if err == nil {
			for _, order := range ordersBody.Orders {
				snapshot.RecentOrders = append(snapshot.RecentOrders, RecentOrder{
					ID:                stringifyID(order.ID),
					Name:              order.Name,
					CreatedAt:         order.CreatedAt,
					TotalPrice:        order.TotalPrice,
					Currency:          order.Currency,
					FinancialStatus:   order.FinancialStatus,
					FulfillmentStatus: order.FulfillmentStatus,
				})
			}
		}
	}

	return snapshot, nil
}

func (s *ShopifyClient) fetchCount(ctx context.Context, url string, headers map[string]string) (int, error) {
	var body struct {
		Count int `json:"count"`
	}
	resp, err := s.hc.GetJSON(ctx, url, headers, &body)
	if resp != nil {
		metrics.RecordHTTPRequest("shopify", strconv.Itoa(resp.StatusCode), resp.Duration.Seconds())
	}
	if err != nil {
		if resp != nil && !resp.IsSuccess() {
			return 0, fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		return 0, err
	}
	return body.Count, nil
}
