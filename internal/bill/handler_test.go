package bill

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// ---- mock implementations ----

type mockPayer struct {
	payFn  func(cqrs.PayBillCommand) (*models.Bill, error)
	listFn func(cqrs.ListBillsQuery) ([]models.Bill, error)
}

func (m *mockPayer) PayBill(cmd cqrs.PayBillCommand) (*models.Bill, error) {
	if m.payFn != nil {
		return m.payFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockPayer) ListBills(q cqrs.ListBillsQuery) ([]models.Bill, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newTestRouter(svc Payer, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", authUserID)
		c.Next()
	})
	h := NewHandler(svc)
	r.POST("/v1/bills", h.PayBill)
	r.GET("/v1/bills", h.ListBills)
	return r
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func aPayRequest() map[string]interface{} {
	return map[string]interface{}{
		"accountId":  "acc-001",
		"billType":   "electricity",
		"billNumber": "EDH-5521",
		"amount":     50.0,
		"provider":   "EDH",
	}
}

// ---- tests ----

func TestPayBillHTTP(t *testing.T) {
	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "insufficient balance returns 422 Balans ensifizan",
			serviceErr:     fmt.Errorf("insufficient funds"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "Balans ensifizan",
		},
		{
			name:           "foreign account returns 403",
			serviceErr:     fmt.Errorf("forbidden"),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing account returns 404",
			serviceErr:     fmt.Errorf("account not found"),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "frozen account returns 403",
			serviceErr:     fmt.Errorf("account frozen"),
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPayer{
				payFn: func(cmd cqrs.PayBillCommand) (*models.Bill, error) {
					return nil, tt.serviceErr
				},
			}
			router := newTestRouter(svc, "usr-001")

			w := doRequest(router, "POST", "/v1/bills", aPayRequest())
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedBody != "" && !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %s", tt.expectedBody, w.Body.String())
			}
		})
	}

	t.Run("successful payment returns 201 with the bill", func(t *testing.T) {
		paid := time.Now().UTC()
		svc := &mockPayer{
			payFn: func(cmd cqrs.PayBillCommand) (*models.Bill, error) {
				if cmd.UserID != "usr-001" || cmd.Amount != 50 {
					t.Errorf("unexpected command: %+v", cmd)
				}
				return &models.Bill{
					ID: "bil-001", UserID: cmd.UserID, Type: cmd.BillType,
					BillNumber: cmd.BillNumber, Amount: cmd.Amount,
					Provider: cmd.Provider, PaidAt: &paid, CreatedAt: paid,
				}, nil
			},
		}
		router := newTestRouter(svc, "usr-001")

		w := doRequest(router, "POST", "/v1/bills", aPayRequest())
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", w.Code)
		}

		var bill models.Bill
		if err := json.Unmarshal(w.Body.Bytes(), &bill); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if bill.PaidAt == nil {
			t.Errorf("paid bill must carry paidAt")
		}
	})

	t.Run("unknown bill type is rejected before the service", func(t *testing.T) {
		called := false
		svc := &mockPayer{
			payFn: func(cmd cqrs.PayBillCommand) (*models.Bill, error) {
				called = true
				return nil, nil
			},
		}
		router := newTestRouter(svc, "usr-001")

		body := aPayRequest()
		body["billType"] = "cable"
		w := doRequest(router, "POST", "/v1/bills", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
		if called {
			t.Errorf("invalid request must not reach the service")
		}
	})
}
