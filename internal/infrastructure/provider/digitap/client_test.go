package digitap

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

func TestClient_RegistrationLookup(t *testing.T) {
	var captured lookupRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rc" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("client:secret"))
		if r.Header.Get("Authorization") != want {
			t.Fatalf("unexpected authorization header: %s", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(lookupResponse{
			ResultCode: resultCodeOK,
			Result: lookupResult{
				RegDate:      "2019-03-01",
				RegAuthority: "RTO BANGALORE",
				OwnerName:    "ASHA RAO",
				OwnerCount:   2,
				Chassis:      "MALAM51BLBM123456",
				Status:       "ACTIVE",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, ClientID: "client", ClientSecret: "secret"}, zerolog.Nop())

	record, err := client.RegistrationLookup(context.Background(), "KA01AB1234")
	if err != nil {
		t.Fatalf("RegistrationLookup returned error: %v", err)
	}
	if captured.RegNo != "KA01AB1234" || captured.ChassisNo != "" {
		t.Fatalf("unexpected request body: %+v", captured)
	}
	if captured.ClientRefNum == "" {
		t.Fatalf("client_ref_num must be set")
	}
	if record.Owner.Name != "ASHA RAO" || record.Owner.Serial != 2 {
		t.Fatalf("unexpected owner data: %+v", record.Owner)
	}
	if record.Vehicle.ChassisNumber != "MALAM51BLBM123456" {
		t.Fatalf("unexpected chassis: %s", record.Vehicle.ChassisNumber)
	}
	if record.Financier != "N/A" {
		t.Fatalf("empty financer must normalise to N/A, got %q", record.Financier)
	}
}

func TestClient_ChassisLookup(t *testing.T) {
	var captured lookupRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chassis" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_ = json.NewEncoder(w).Encode(lookupResponse{
			ResultCode: resultCodeOK,
			Result:     lookupResult{RCFinancer: "HDFC BANK", Financed: true},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())

	record, err := client.ChassisLookup(context.Background(), "MALAM51BLBM123456")
	if err != nil {
		t.Fatalf("ChassisLookup returned error: %v", err)
	}
	if captured.ChassisNo != "MALAM51BLBM123456" || captured.RegNo != "" {
		t.Fatalf("unexpected request body: %+v", captured)
	}
	if !record.Financed || record.Financier != "HDFC BANK" {
		t.Fatalf("unexpected finance data: %+v", record)
	}
}

func TestClient_Lookup_RecordNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(lookupResponse{ResultCode: 102, Message: "record not found"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())

	if _, err := client.RegistrationLookup(context.Background(), "KA01XX0000"); !errors.Is(err, domain.ErrProviderRejected) {
		t.Fatalf("expected ErrProviderRejected, got %v", err)
	}
}

func TestClient_Lookup_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())

	if _, err := client.RegistrationLookup(context.Background(), "KA01AB1234"); !errors.Is(err, domain.ErrProviderRejected) {
		t.Fatalf("expected ErrProviderRejected, got %v", err)
	}
}

func TestClient_Lookup_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())

	if _, err := client.RegistrationLookup(context.Background(), "KA01AB1234"); !errors.Is(err, domain.ErrProviderUnreachable) {
		t.Fatalf("expected ErrProviderUnreachable, got %v", err)
	}
}
