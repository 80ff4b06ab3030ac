// Package digitap implements the vehicle-data provider adapter against the
// Digitap KYC validation API.
package digitap

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second

	// resultCodeOK is the provider's "record found" code; everything else is
	// a rejection carrying a message.
	resultCodeOK = 101
)

// Config carries the provider endpoint and credentials.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client performs registration and chassis lookups.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

type lookupRequest struct {
	ClientRefNum string `json:"client_ref_num"`
	RegNo        string `json:"reg_no,omitempty"`
	ChassisNo    string `json:"chassis_no,omitempty"`
}

type lookupResponse struct {
	ResultCode int          `json:"result_code"`
	Message    string       `json:"message"`
	Result     lookupResult `json:"result"`
}

type lookupResult struct {
	RegDate                       string `json:"reg_date"`
	RCExpiryDate                  string `json:"rc_expiry_date"`
	RegAuthority                  string `json:"reg_authority"`
	NormsType                     string `json:"norms_type"`
	RCFinancer                    string `json:"rc_financer"`
	Financed                      bool   `json:"financed"`
	OwnerName                     string `json:"owner_name"`
	OwnerFatherName               string `json:"owner_father_name"`
	PresentAddress                string `json:"present_address"`
	PermanentAddress              string `json:"permanent_address"`
	OwnerCount                    int    `json:"owner_count"`
	VehicleManufacturingMonthYear string `json:"vehicle_manufacturing_month_year"`
	Class                         string `json:"class"`
	Chassis                       string `json:"chassis"`
	Engine                        string `json:"engine"`
	VehicleManufacturerName       string `json:"vehicle_manufacturer_name"`
	Model                         string `json:"model"`
	BodyType                      string `json:"body_type"`
	Type                          string `json:"type"`
	VehicleColour                 string `json:"vehicle_colour"`
	VehicleCubicCapacity          string `json:"vehicle_cubic_capacity"`
	UnladenWeight                 string `json:"unladen_weight"`
	VehicleCylindersNo            string `json:"vehicle_cylinders_no"`
	VehicleSeatCapacity           string `json:"vehicle_seat_capacity"`
	Wheelbase                     string `json:"wheelbase"`
	VehicleInsuranceUpto          string `json:"vehicle_insurance_upto"`
	VehicleInsuranceCompanyName   string `json:"vehicle_insurance_company_name"`
	VehicleInsurancePolicyNumber  string `json:"vehicle_insurance_policy_number"`
	VehicleTaxUpto                string `json:"vehicle_tax_upto"`
	Status                        string `json:"status"`
	StatusAsOn                    string `json:"status_as_on"`
}

// RegistrationLookup fetches the registration record for a plate number.
func (c *Client) RegistrationLookup(ctx context.Context, regNo string) (*domain.VehicleRecord, error) {
	return c.lookup(ctx, "/rc", lookupRequest{ClientRefNum: newRefNum(), RegNo: regNo})
}

// ChassisLookup fetches the registration record by chassis number.
func (c *Client) ChassisLookup(ctx context.Context, chassisNo string) (*domain.VehicleRecord, error) {
	return c.lookup(ctx, "/chassis", lookupRequest{ClientRefNum: newRefNum(), ChassisNo: chassisNo})
}

func (c *Client) lookup(ctx context.Context, path string, body lookupRequest) (*domain.VehicleRecord, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("digitap: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("digitap: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+basicAuth(c.cfg.ClientID, c.cfg.ClientSecret))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrProviderUnreachable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Msg("provider request rejected")
		return nil, fmt.Errorf("%w: status %d", domain.ErrProviderRejected, resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("digitap: decode response: %w", err)
	}
	if decoded.ResultCode != resultCodeOK {
		return nil, fmt.Errorf("%w: %d %s", domain.ErrProviderRejected, decoded.ResultCode, decoded.Message)
	}

	return normalize(decoded.Result), nil
}

// normalize maps the provider's flat field layout onto the stable record the
// rest of the system consumes.
func normalize(r lookupResult) *domain.VehicleRecord {
	financier := r.RCFinancer
	if financier == "" {
		financier = "N/A"
	}

	return &domain.VehicleRecord{
		IssueDate:    r.RegDate,
		ExpiryDate:   r.RCExpiryDate,
		RegisteredAt: r.RegAuthority,
		NormsType:    r.NormsType,
		Financier:    financier,
		Financed:     r.Financed,
		Owner: domain.OwnerData{
			Name:             r.OwnerName,
			FatherName:       r.OwnerFatherName,
			PresentAddress:   r.PresentAddress,
			PermanentAddress: r.PermanentAddress,
			Serial:           r.OwnerCount,
		},
		Vehicle: domain.VehicleData{
			ManufacturedDate:    r.VehicleManufacturingMonthYear,
			CategoryDescription: r.Class,
			ChassisNumber:       r.Chassis,
			EngineNumber:        r.Engine,
			MakerDescription:    r.VehicleManufacturerName,
			MakerModel:          r.Model,
			BodyType:            r.BodyType,
			FuelType:            r.Type,
			Color:               r.VehicleColour,
			CubicCapacity:       r.VehicleCubicCapacity,
			UnladenWeight:       r.UnladenWeight,
			NumberOfCylinders:   r.VehicleCylindersNo,
			SeatingCapacity:     r.VehicleSeatCapacity,
			Wheelbase:           r.Wheelbase,
		},
		Insurance: domain.InsuranceData{
			ExpiryDate:   r.VehicleInsuranceUpto,
			Company:      r.VehicleInsuranceCompanyName,
			PolicyNumber: r.VehicleInsurancePolicyNumber,
		},
		TaxEndDate: r.VehicleTaxUpto,
		Status:     r.Status,
		StatusAsOn: r.StatusAsOn,
	}
}

func basicAuth(id, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(id + ":" + secret))
}

func newRefNum() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("req_%X", b)
}
