package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/rs/zerolog"
)

// RemoteRecordSource serves lookups from the legacy spreadsheet endpoint
// the club ran before records moved into Postgres. The transport is an
// opaque GET ?rollNo=... returning {success, message, data}.
type RemoteRecordSource struct {
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

// NewRemoteRecordSource creates a RemoteRecordSource for the endpoint URL.
func NewRemoteRecordSource(endpoint string, log zerolog.Logger) *RemoteRecordSource {
	return &RemoteRecordSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		log:      log.With().Str("component", "remote_lookup").Logger(),
	}
}

type remoteEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *remoteRecord `json:"data"`
}

type remoteRecord struct {
	Name   string `json:"name"`
	RollNo string `json:"rollNo"`
	Year   string `json:"year"`
	Dept   string `json:"dept"`
	Place  string `json:"place"`
}

// Lookup implements RecordSource.
func (s *RemoteRecordSource) Lookup(ctx context.Context, rollNo string) (*model.CertificateRecord, error) {
	reqURL := fmt.Sprintf("%s?rollNo=%s", s.endpoint, url.QueryEscape(rollNo))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: endpoint returned %s", ErrLookupUnavailable, resp.Status)
	}

	var envelope remoteEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordInvalid, err)
	}

	if !envelope.Success {
		s.log.Debug().Str("roll_no", rollNo).Str("message", envelope.Message).Msg("Remote lookup miss")
		return nil, ErrRecordNotFound
	}

	if envelope.Data == nil || envelope.Data.Name == "" || envelope.Data.RollNo == "" {
		return nil, ErrRecordInvalid
	}

	return &model.CertificateRecord{
		RollNo: envelope.Data.RollNo,
		Name:   envelope.Data.Name,
		Year:   envelope.Data.Year,
		Dept:   envelope.Data.Dept,
		Place:  envelope.Data.Place,
	}, nil
}
