package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

type MockVendorBillService struct {
	mock.Mock
}

func (m *MockVendorBillService) CreateBill(ctx context.Context, req dto.CreateBillRequest, userID string) (*domain.VendorBill, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorBill), args.Error(1)
}
func (m *MockVendorBillService) GetBill(ctx context.Context, billID string) (*domain.VendorBill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorBill), args.Error(1)
}
func (m *MockVendorBillService) ListBills(ctx context.Context, params dto.ListDocumentsParams) ([]domain.VendorBill, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VendorBill), args.Error(1)
}
func (m *MockVendorBillService) ConfirmBill(ctx context.Context, billID string, userID string) (*domain.VendorBill, *domain.JournalEntry, error) {
	args := m.Called(ctx, billID, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.VendorBill), args.Get(1).(*domain.JournalEntry), args.Error(2)
}
func (m *MockVendorBillService) BillOutstanding(ctx context.Context, billID string) (*dto.OutstandingResponse, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.OutstandingResponse), args.Error(1)
}

var _ portssvc.VendorBillSvc = (*MockVendorBillService)(nil)

type BillHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockBillService *MockVendorBillService
	userID          string
}

func (suite *BillHandlerTestSuite) SetupTest() {
	suite.mockBillService = new(MockVendorBillService)
	suite.router = newTestRouter(&portssvc.ServiceContainer{VendorBill: suite.mockBillService})
	suite.userID = uuid.NewString()
}

func (suite *BillHandlerTestSuite) TearDownTest() {
	suite.mockBillService.AssertExpectations(suite.T())
}

func (suite *BillHandlerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *BillHandlerTestSuite) TestCreateBill_Success() {
	body := `{"vendorID":"v-1","billDate":"2025-04-01T00:00:00Z","lines":[{"description":"Paper","quantity":"3","unitPrice":"100","taxPercent":"18"}]}`
	bill := &domain.VendorBill{BillID: uuid.NewString(), Number: "BILL/2025/0001", VendorID: "v-1", Status: domain.StatusDraft}

	suite.mockBillService.On("CreateBill", mock.Anything, mock.MatchedBy(func(r dto.CreateBillRequest) bool {
		return r.VendorID == "v-1" && len(r.Lines) == 1 && r.Lines[0].Quantity.Equal(decimal.NewFromInt(3)) &&
			r.Lines[0].TaxPercent != nil && r.Lines[0].TaxPercent.Equal(decimal.NewFromInt(18))
	}), suite.userID).Return(bill, nil).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodPost, "/api/v1/bills", body, suite.userID))

	suite.Equal(http.StatusCreated, w.Code)
	var resp domain.VendorBill
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("BILL/2025/0001", resp.Number)
}

func (suite *BillHandlerTestSuite) TestCreateBill_RejectsNonPositiveQuantity() {
	body := `{"vendorID":"v-1","billDate":"2025-04-01T00:00:00Z","lines":[{"description":"Paper","quantity":"0"}]}`

	w := suite.serve(newJSONRequest(suite.T(), http.MethodPost, "/api/v1/bills", body, suite.userID))

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *BillHandlerTestSuite) TestCreateBill_RejectsNegativeTax() {
	body := `{"vendorID":"v-1","billDate":"2025-04-01T00:00:00Z","lines":[{"quantity":"1","unitPrice":"10","taxPercent":"-5"}]}`

	w := suite.serve(newJSONRequest(suite.T(), http.MethodPost, "/api/v1/bills", body, suite.userID))

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *BillHandlerTestSuite) TestConfirmBill_Success() {
	billID := uuid.NewString()
	entryID := uuid.NewString()
	bill := &domain.VendorBill{BillID: billID, Status: domain.StatusConfirmed, JournalEntryID: &entryID}
	entry := &domain.JournalEntry{
		EntryID: entryID,
		Date:    time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Lines: []domain.JournalLine{
			{AccountID: "expense", Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: "payable", Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
	}
	suite.mockBillService.On("ConfirmBill", mock.Anything, billID, suite.userID).Return(bill, entry, nil).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodPost, "/api/v1/bills/"+billID+"/confirm", nil, suite.userID))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ConfirmResponse[domain.VendorBill]
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(entryID, resp.Journal.EntryID)
	suite.True(resp.Journal.TotalDebit.Equal(resp.Journal.TotalCredit))
}

func (suite *BillHandlerTestSuite) TestConfirmBill_ErrorStatuses() {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"already posted", apperrors.ErrAlreadyPosted, http.StatusConflict},
		{"accounts missing", apperrors.AccountsNotConfigured("payable"), http.StatusPreconditionFailed},
		{"empty", apperrors.ErrEmptyDocument, http.StatusBadRequest},
		{"missing", apperrors.NewNotFoundError("vendor_bill", "b"), http.StatusNotFound},
		{"unexpected", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		suite.Run(tc.name, func() {
			billID := uuid.NewString()
			suite.mockBillService.On("ConfirmBill", mock.Anything, billID, suite.userID).Return(nil, nil, tc.err).Once()

			w := suite.serve(newJSONRequest(suite.T(), http.MethodPost, "/api/v1/bills/"+billID+"/confirm", nil, suite.userID))

			suite.Equal(tc.status, w.Code)
		})
	}
}

func (suite *BillHandlerTestSuite) TestBillOutstanding() {
	billID := uuid.NewString()
	suite.mockBillService.On("BillOutstanding", mock.Anything, billID).Return(&dto.OutstandingResponse{
		DocumentID:  billID,
		Total:       decimal.NewFromInt(1100),
		Settled:     decimal.NewFromInt(600),
		Outstanding: decimal.NewFromInt(500),
	}, nil).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodGet, "/api/v1/bills/"+billID+"/outstanding", nil, suite.userID))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.OutstandingResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Outstanding.Equal(decimal.NewFromInt(500)))
}

func (suite *BillHandlerTestSuite) TestListBills_InvalidStatus() {
	w := suite.serve(newJSONRequest(suite.T(), http.MethodGet, "/api/v1/bills?status=archived", nil, suite.userID))

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *BillHandlerTestSuite) TestListBills_EmptyIsArray() {
	suite.mockBillService.On("ListBills", mock.Anything, dto.ListDocumentsParams{Status: "draft"}).Return(nil, nil).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodGet, "/api/v1/bills?status=draft", nil, suite.userID))

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"bills":[]}`, w.Body.String())
}

func TestBillHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BillHandlerTestSuite))
}
