package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salespipeline/internal/models"
)

// DealInput is the ingestion shape of a deal.
type DealInput struct {
	DealID             string           `json:"deal_id" validate:"required"`
	CompanyName        string           `json:"company_name" validate:"required"`
	ContactName        string           `json:"contact_name" validate:"required"`
	SalesRep           string           `json:"sales_rep" validate:"required"`
	TransportationMode string           `json:"transportation_mode" validate:"required,oneof=trucking rail ocean air"`
	CargoType          *string          `json:"cargo_type"`
	OriginCity         string           `json:"origin_city" validate:"required"`
	DestinationCity    string           `json:"destination_city" validate:"required"`
	Stage              string           `json:"stage" validate:"required,oneof=prospect qualified proposal negotiation closed_won closed_lost"`
	Value              *decimal.Decimal `json:"value" validate:"required"`
	Probability        *int             `json:"probability" validate:"required,min=0,max=100"`
	CreatedDate        *DealDate        `json:"created_date" swaggertype:"string"`
	UpdatedDate        *DealDate        `json:"updated_date" swaggertype:"string"`
	ExpectedCloseDate  *DealDate        `json:"expected_close_date" validate:"required" swaggertype:"string"`
	AssignedRepID      *uint64          `json:"assigned_rep_id"`
	TerritoryID        *uint64          `json:"territory_id"`
}

// DealDate is an ISO-8601 date on the ingest wire: an RFC 3339 timestamp or a
// bare YYYY-MM-DD, which means midnight UTC.
type DealDate time.Time

func (d *DealDate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = DealDate(t)
	return nil
}

// UTC returns the date as a UTC time.
func (d DealDate) UTC() time.Time {
	return time.Time(d).UTC()
}

// ParseDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}

type IngestError struct {
	DealID string `json:"deal_id"`
	Error  string `json:"error"`
}

type BatchResult struct {
	Success int           `json:"success"`
	Errors  []IngestError `json:"errors"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func dealValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// IsBatch reports whether body is a JSON array.
func IsBatch(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// ParseDeal decodes and validates one deal. Failures match ErrInvalidInput.
func (s *DealService) ParseDeal(raw []byte) (*models.Deal, error) {
	var in DealInput
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&in); err != nil {
		return nil, invalid("invalid deal payload: " + err.Error())
	}
	in.DealID = strings.TrimSpace(in.DealID)
	in.TransportationMode = strings.ToLower(strings.TrimSpace(in.TransportationMode))
	in.Stage = strings.ToLower(strings.TrimSpace(in.Stage))
	if err := dealValidator().Struct(in); err != nil {
		return nil, invalid(validationMessage(err))
	}
	if in.Value.IsNegative() {
		return nil, invalid("value must not be negative")
	}

	created := s.now()
	if in.CreatedDate != nil {
		created = in.CreatedDate.UTC()
	}
	updated := created
	if in.UpdatedDate != nil {
		updated = in.UpdatedDate.UTC()
	}
	expected := in.ExpectedCloseDate.UTC()
	prob := *in.Probability

	return &models.Deal{
		DealID:             in.DealID,
		CompanyName:        strings.TrimSpace(in.CompanyName),
		ContactName:        strings.TrimSpace(in.ContactName),
		SalesRep:           strings.TrimSpace(in.SalesRep),
		TransportationMode: in.TransportationMode,
		CargoType:          in.CargoType,
		OriginCity:         strings.TrimSpace(in.OriginCity),
		DestinationCity:    strings.TrimSpace(in.DestinationCity),
		Stage:              in.Stage,
		Value:              decimal.NewNullDecimal(*in.Value),
		Probability:        &prob,
		CreatedDate:        &created,
		UpdatedDate:        &updated,
		ExpectedCloseDate:  &expected,
		AssignedRepID:      nonZero(in.AssignedRepID),
		TerritoryID:        nonZero(in.TerritoryID),
	}, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "min", "max":
			parts = append(parts, fe.Field()+" must be between 0 and 100")
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// IngestOne validates and stores a single deal and returns its external id.
func (s *DealService) IngestOne(ctx context.Context, raw []byte) (string, error) {
	d, err := s.ParseDeal(raw)
	if err != nil {
		return "", err
	}
	if err := s.Repo.InsertDeal(ctx, d); err != nil {
		return "", fmt.Errorf("%w: insert deal: %v", ErrUpstream, err)
	}
	return d.DealID, nil
}

// IngestBatch stores every valid deal in body (a JSON array) and reports the
// rejected ones. A storage failure aborts the batch.
func (s *DealService) IngestBatch(ctx context.Context, body []byte) (BatchResult, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return BatchResult{}, invalid("invalid batch payload")
	}
	res := BatchResult{Errors: []IngestError{}}
	for _, raw := range items {
		_, err := s.IngestOne(ctx, raw)
		if err == nil {
			res.Success++
			continue
		}
		if errors.Is(err, ErrUpstream) {
			return res, err
		}
		res.Errors = append(res.Errors, IngestError{DealID: peekDealID(raw), Error: err.Error()})
	}
	if s.Logger != nil {
		s.Logger.Info("deal batch ingested",
			zap.Int("total", len(items)),
			zap.Int("success", res.Success),
			zap.Int("rejected", len(res.Errors)),
		)
	}
	return res, nil
}

func peekDealID(raw []byte) string {
	var probe struct {
		DealID any `json:"deal_id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.DealID == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(probe.DealID))
}
