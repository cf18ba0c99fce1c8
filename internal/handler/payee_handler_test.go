package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taxfiling/internal/domain"
	"taxfiling/internal/handler"
	"taxfiling/internal/service"
	"taxfiling/mocks"
)

func newPayeeHandler() (*handler.PayeeHandler, *mocks.MockPayeeService) {
	mockSvc := new(mocks.MockPayeeService)
	return handler.NewPayeeHandler(mockSvc), mockSvc
}

func w9Body() map[string]interface{} {
	return map[string]interface{}{
		"legal_name":         "Jane Creator",
		"tax_classification": "individual",
		"address":            map[string]string{"line1": "1 Main", "city": "Austin", "state": "TX", "postal_code": "78701"},
		"email":              "jane@example.com",
		"tin_type":           "ssn",
		"tin":                "123-45-6789",
		"certified_name":     "Jane Creator",
	}
}

func TestPayeeHandler_SubmitW9_Success(t *testing.T) {
	h, mockSvc := newPayeeHandler()
	c, w, tenantID := newAuthedContext(http.MethodPost, "/api/v1/tax/payees/creator/c-1/w9", w9Body(),
		param("type", "creator"), param("id", "c-1"))

	mockSvc.On("SubmitW9", mock.Anything, mock.MatchedBy(func(in *service.SubmitW9Input) bool {
		return in.TenantID == tenantID &&
			in.PayeeType == domain.PayeeTypeCreator &&
			in.PayeeID == "c-1" &&
			in.TIN == "123-45-6789" &&
			in.Address.City == "Austin" &&
			in.Actor == testActor
	})).Return(&domain.TaxPayee{ID: uuid.New(), PayeeID: "c-1", TINLastFour: "6789"}, nil)

	h.SubmitW9(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode(t, w).Success)
	assert.NotContains(t, w.Body.String(), "123-45-6789")
	mockSvc.AssertExpectations(t)
}

func TestPayeeHandler_SubmitW9_InvalidPayeeType(t *testing.T) {
	h, mockSvc := newPayeeHandler()
	c, w, _ := newAuthedContext(http.MethodPost, "/api/v1/tax/payees/employee/e-1/w9", w9Body(),
		param("type", "employee"), param("id", "e-1"))

	h.SubmitW9(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PAYEE_TYPE", decode(t, w).Error.Code)
	mockSvc.AssertNotCalled(t, "SubmitW9", mock.Anything, mock.Anything)
}

func TestPayeeHandler_SubmitW9_MissingTIN(t *testing.T) {
	h, _ := newPayeeHandler()
	body := w9Body()
	delete(body, "tin")
	c, w, _ := newAuthedContext(http.MethodPost, "/", body, param("type", "creator"), param("id", "c-1"))

	h.SubmitW9(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
}

func TestPayeeHandler_Get_NotFound(t *testing.T) {
	h, mockSvc := newPayeeHandler()
	c, w, tenantID := newAuthedContext(http.MethodGet, "/", nil, param("type", "vendor"), param("id", "v-9"))

	mockSvc.On("GetPayee", mock.Anything, tenantID, domain.PayeeTypeVendor, "v-9").
		Return(nil, domain.ErrPayeeNotFound)

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PAYEE_NOT_FOUND", decode(t, w).Error.Code)
}

func TestPayeeHandler_RevealTIN(t *testing.T) {
	h, mockSvc := newPayeeHandler()
	c, w, tenantID := newAuthedContext(http.MethodPost, "/", map[string]string{"reason": "IRS notice"},
		param("type", "merchant"), param("id", "m-1"))

	mockSvc.On("RevealTIN", mock.Anything, tenantID, domain.PayeeTypeMerchant, "m-1", testActor, "IRS notice").
		Return("98-7654321", nil)

	h.RevealTIN(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), "98-7654321")
}

func TestPayeeHandler_RevealTIN_ReasonRequired(t *testing.T) {
	h, mockSvc := newPayeeHandler()
	c, w, _ := newAuthedContext(http.MethodPost, "/", map[string]string{}, param("type", "merchant"), param("id", "m-1"))

	h.RevealTIN(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "RevealTIN", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayeeHandler_ListAudit_Paginates(t *testing.T) {
	h, mockSvc := newPayeeHandler()
	c, w, tenantID := newAuthedContext(http.MethodGet, "/?offset=10&limit=5", nil,
		param("type", "contractor"), param("id", "k-1"))

	mockSvc.On("ListAudit", mock.Anything, tenantID, domain.PayeeTypeContractor, "k-1", 10, 5).
		Return([]domain.TaxFormAuditEntry{{Action: domain.AuditW9Submitted}}, 11, nil)

	h.ListAudit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, &handler.PagMeta{Total: 11, Offset: 10, Limit: 5}, resp.Meta)
}
