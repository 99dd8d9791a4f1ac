package dto

import (
	"time"

	"shortlink/internal/domain/models"
	"shortlink/internal/services/url_shortener"
)

// Request
type ShortenRequest struct {
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Response
type ShortenResponse struct {
	Result    string     `json:"result"`
	ShortCode string     `json:"short_code"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Request → Domain
func (r ShortenRequest) ToDomain(userID int64) url_shortener.CreateRequest {
	return url_shortener.CreateRequest{
		URL:       r.URL,
		UserID:    userID,
		ExpiresAt: r.ExpiresAt,
	}
}

// Domain → Response
func ShortenResponseFromDomain(link models.LinkRecord, shortURL string) ShortenResponse {
	return ShortenResponse{
		Result:    shortURL,
		ShortCode: link.ShortCode,
		ExpiresAt: link.ExpiresAt,
	}
}
