package transaction

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

type mockCommander struct {
	createFn   func(cqrs.CreateTransactionCommand) (*models.Transaction, error)
	transferFn func(cqrs.TransferCommand) (*models.Transaction, error)
}

func (m *mockCommander) CreateTransaction(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockCommander) Transfer(cmd cqrs.TransferCommand) (*models.Transaction, error) {
	if m.transferFn != nil {
		return m.transferFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockQuerier struct {
	getFn  func(cqrs.GetTransactionQuery) (*models.TransactionView, error)
	listFn func(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

func (m *mockQuerier) GetTransaction(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockQuerier) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

func newTestRouter(cmds Commander, qrys Querier, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuth(authUserID))
	h := NewHandler(cmds, qrys)
	v1 := r.Group("/v1/accounts/:accountId")
	v1.POST("/transactions", h.CreateTransaction)
	v1.GET("/transactions", h.ListTransactions)
	v1.GET("/transactions/:transactionId", h.GetTransaction)
	v1.POST("/transfers", h.Transfer)
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

// ---- test data ----

var aTestEntry = &models.Transaction{
	ID: "txn-001", UserID: "usr-001", AccountID: "acc-001",
	Type: TypeDeposit, Amount: 50, Currency: "HTG",
	Status: StatusCompleted, CreatedAt: time.Now(),
}

// ---- tests ----

func TestCreateTransactionHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		createFn       func(cqrs.CreateTransactionCommand) (*models.Transaction, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success - deposit",
			body: map[string]interface{}{"transactionType": "deposit", "amount": 50.0},
			createFn: func(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
				return aTestEntry, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unprocessable - insufficient funds in Kreyol",
			body: map[string]interface{}{"transactionType": "withdrawal", "amount": 5000.0},
			createFn: func(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("insufficient funds")
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "Balans ensifizan",
		},
		{
			name:           "bad request - transfer type not accepted on this endpoint",
			body:           map[string]interface{}{"transactionType": "transfer_sent", "amount": 50.0},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - negative amount",
			body:           map[string]interface{}{"transactionType": "deposit", "amount": -5.0},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "forbidden - frozen account",
			body: map[string]interface{}{"transactionType": "deposit", "amount": 50.0},
			createFn: func(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("account frozen")
			},
			expectedStatus: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockCommander{createFn: tt.createFn}
			router := newTestRouter(cmds, &mockQuerier{}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/accounts/acc-001/transactions", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedBody != "" && !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("[%s] expected body to contain %q, got %s", tt.name, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestTransferHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		transferFn     func(cqrs.TransferCommand) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name: "success - transfer to another account",
			body: map[string]interface{}{"toAccountId": "acc-002", "amount": 50.0},
			transferFn: func(cmd cqrs.TransferCommand) (*models.Transaction, error) {
				return aTestEntry, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unprocessable - insufficient funds",
			body: map[string]interface{}{"toAccountId": "acc-002", "amount": 5000.0},
			transferFn: func(cmd cqrs.TransferCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("insufficient funds")
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "not found - destination account",
			body: map[string]interface{}{"toAccountId": "acc-999", "amount": 10.0},
			transferFn: func(cmd cqrs.TransferCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("destination account not found")
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad request - missing destination",
			body:           map[string]interface{}{"amount": 10.0},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockCommander{transferFn: tt.transferFn}
			router := newTestRouter(cmds, &mockQuerier{}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/accounts/acc-001/transfers", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetTransaction(t *testing.T) {
	view := &models.TransactionView{
		ID: "txn-001", UserID: "usr-001", AccountID: "acc-001",
		Type: TypeDeposit, Amount: 50, Currency: "HTG", Status: StatusCompleted,
	}

	tests := []struct {
		name           string
		getFn          func(cqrs.GetTransactionQuery) (*models.TransactionView, error)
		expectedStatus int
	}{
		{
			name:           "success - fetch own transaction",
			getFn:          func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) { return view, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name: "forbidden - another user's transaction",
			getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
				return nil, fmt.Errorf("forbidden")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "not found",
			getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
				return nil, fmt.Errorf("transaction not found")
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{}, &mockQuerier{getFn: tt.getFn}, "usr-001")
			w := doRequest(router, http.MethodGet, "/v1/accounts/acc-001/transactions/txn-001", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	t.Run("malformed ID never reaches the query service", func(t *testing.T) {
		called := false
		qrys := &mockQuerier{
			getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
				called = true
				return view, nil
			},
		}
		router := newTestRouter(&mockCommander{}, qrys, "usr-001")
		w := doRequest(router, http.MethodGet, "/v1/accounts/acc-001/transactions/bogus-001", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 for a malformed ID, got %d", w.Code)
		}
		if called {
			t.Errorf("malformed ID must be rejected before the lookup")
		}
	})
}
