package payment_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"seva/infras/otel/mocks"
	"seva/internal/domains/payment/model/dto"
	"seva/internal/domains/payment/service"
	serviceMocks "seva/internal/domains/payment/service/mocks"
	"seva/internal/handlers/payment"
	"seva/shared/constant"
	"seva/shared/failure"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(t *testing.T) (*serviceMocks.MockPayment, http.Handler) {
	t.Helper()

	svc := serviceMocks.NewMockPayment(gomock.NewController(t))
	handler := payment.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return svc, router
}

func serve(router http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &body)

	return rec, body
}

func TestWebhookPassesRawBodyAndSignature(t *testing.T) {
	svc, router := newRouter(t)

	raw := `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1"}}}}`

	svc.EXPECT().Webhook(gomock.Any(), []byte(raw), "a1b2c3").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", strings.NewReader(raw))
	req.Header.Set(constant.RequestHeaderGatewaySignature, "a1b2c3")

	rec, body := serve(router, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Webhook(gomock.Any(), gomock.Any(), "").Return(service.ErrInvalidSignature)

	rec, body := serve(router, httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrInvalidSignature.Message, body.Message)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mock       func(svc *serviceMocks.MockPayment)
		wantStatus int
	}{
		{
			name:       "signature must be hex",
			body:       `{"order_id":"order_1","payment_id":"pay_1","signature":"not-hex"}`,
			mock:       func(*serviceMocks.MockPayment) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "already paid",
			body: `{"order_id":"order_1","payment_id":"pay_1","signature":"abcdef"}`,
			mock: func(svc *serviceMocks.MockPayment) {
				svc.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(dto.VerifyResponse{}, service.ErrAlreadyPaid)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "settled",
			body: `{"order_id":"order_1","payment_id":"pay_1","signature":"abcdef"}`,
			mock: func(svc *serviceMocks.MockPayment) {
				svc.EXPECT().Verify(gomock.Any(), dto.VerifyRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: "abcdef"}).
					Return(dto.VerifyResponse{}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)
			tt.mock(svc)

			rec, _ := serve(router, httptest.NewRequest(http.MethodPost, "/v1/payments/verify", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDownloadInvoice(t *testing.T) {
	svc, router := newRouter(t)

	pdf := []byte("%PDF-1.3 invoice")

	svc.EXPECT().InvoicePDF(gomock.Any(), "b-1").Return(pdf, "INV-20261102-0001.pdf", nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/payments/invoices/b-1/pdf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.ContentTypePDF, rec.Header().Get(constant.RequestHeaderContentType))
	assert.Equal(t, "attachment; filename=INV-20261102-0001.pdf", rec.Header().Get(constant.RequestHeaderContentDisposition))
	assert.Equal(t, pdf, rec.Body.Bytes())
}

func TestGetInvoiceNotFound(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().GetInvoice(gomock.Any(), "b-9").Return(dto.InvoiceResponse{}, failure.NotFound("invoice"))

	rec, body := serve(router, httptest.NewRequest(http.MethodGet, "/v1/payments/invoices/b-9", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
}
