package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linguatrust/translation-orders/internal/client"
	"github.com/linguatrust/translation-orders/internal/entities"
	"github.com/linguatrust/translation-orders/internal/pricing"
	"github.com/linguatrust/translation-orders/internal/service"
	"github.com/linguatrust/translation-orders/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	Quote(ctx context.Context, in service.QuoteInput) (pricing.Quote, error)
	CreateOrder(ctx context.Context, in service.CreateOrderInput) (entities.Order, error)
	GetByNumber(ctx context.Context, number string) (entities.Order, error)
	AdvanceStage(ctx context.Context, orderNumber string, target entities.Stage, actor string) (entities.Order, error)
}

type AssignmentService interface {
	Invite(ctx context.Context, orderNumber, translatorID string) (entities.AssignmentToken, error)
	Respond(ctx context.Context, token string, action entities.AssignmentAction) (string, error)
}

type CertificationService interface {
	Issue(ctx context.Context, orderNumber string) (entities.Certification, error)
	Verify(ctx context.Context, certificationID string) (entities.Certification, bool, error)
}

type HTTPHandler struct {
	logger      *slog.Logger
	validate    *validator.Validate
	orders      OrderService
	assignments AssignmentService
	certs       CertificationService
}

func NewHTTPHandler(logger *slog.Logger, orders OrderService, assignments AssignmentService, certs CertificationService) *HTTPHandler {
	return &HTTPHandler{
		logger:      logger.With(slog.String("handler", "http")),
		validate:    validator.New(),
		orders:      orders,
		assignments: assignments,
		certs:       certs,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/quote", h.Quote)
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders/{order_number}", h.GetOrder)
		r.Post("/orders/{order_number}/advance", h.AdvanceStage)
		r.Post("/orders/{order_number}/assignments", h.InviteTranslator)
		r.Post("/orders/{order_number}/certification", h.IssueCertification)
		r.Post("/assignments/{token}", h.RespondAssignment)
		r.Get("/certifications/{certification_id}", h.VerifyCertification)
	})
}

func (h *HTTPHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	quote, err := h.orders.Quote(r.Context(), service.QuoteInput{
		ServiceType:          entities.ServiceType(req.ServiceType),
		Urgency:              entities.Urgency(req.Urgency),
		PageCount:            req.PageCount,
		RequiresPhysicalCopy: req.RequiresPhysicalCopy,
		SourceLanguage:       req.SourceLanguage,
		TargetLanguage:       req.TargetLanguage,
		DiscountCode:         req.DiscountCode,
	})
	if err != nil {
		quotesComputed.WithLabelValues("rejected").Inc()
		h.writeDomainError(w, r, err)
		return
	}

	quotesComputed.WithLabelValues("ok").Inc()
	utils.WriteJSON(w, QuoteToJSON(quote), http.StatusOK)
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), service.CreateOrderInput{
		ServiceType:          entities.ServiceType(req.ServiceType),
		DocumentType:         req.DocumentType,
		DocumentRef:          req.DocumentRef,
		Urgency:              entities.Urgency(req.Urgency),
		SourceLanguage:       req.SourceLanguage,
		TargetLanguage:       req.TargetLanguage,
		RequiresPhysicalCopy: req.RequiresPhysicalCopy,
		ShippingAddress:      ShippingAddressToEntity(req.ShippingAddress),
		DiscountCode:         req.DiscountCode,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	ordersCreated.Inc()
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "order_number")

	order, err := h.orders.GetByNumber(r.Context(), number)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

func (h *HTTPHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "order_number")

	var req AdvanceStageRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.AdvanceStage(r.Context(), number, entities.Stage(req.Stage), req.Actor)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	stageTransitions.WithLabelValues(string(order.Stage)).Inc()
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

func (h *HTTPHandler) InviteTranslator(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "order_number")

	var req InviteRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	token, err := h.assignments.Invite(r.Context(), number, req.TranslatorID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, InviteResponse{Token: token.Token, OrderNumber: number}, http.StatusCreated)
}

func (h *HTTPHandler) RespondAssignment(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req RespondRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	orderNumber, err := h.assignments.Respond(r.Context(), token, entities.AssignmentAction(req.Action))

	var already entities.AlreadyRespondedError
	switch {
	case err == nil:
		assignmentResponses.WithLabelValues(req.Action).Inc()
		utils.WriteJSON(w, RespondResponse{OrderNumber: orderNumber, Decision: req.Action}, http.StatusOK)
	case errors.As(err, &already):
		assignmentResponses.WithLabelValues("already_responded").Inc()
		utils.WriteJSON(w, AlreadyRespondedResponse{
			Message:     already.Error(),
			Decision:    string(already.Decision),
			RespondedAt: already.RespondedAt,
		}, http.StatusConflict)
	case errors.Is(err, entities.ErrInvalidAction):
		utils.WriteError(w, "action must be accept or decline", http.StatusBadRequest)
	case errors.Is(err, entities.ErrTokenNotFound):
		assignmentResponses.WithLabelValues("not_found").Inc()
		utils.WriteError(w, "assignment not found", http.StatusNotFound)
	default:
		h.writeDomainError(w, r, err)
	}
}

func (h *HTTPHandler) IssueCertification(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "order_number")

	cert, err := h.certs.Issue(r.Context(), number)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	certificationsIssued.Inc()
	utils.WriteJSON(w, CertificationToJSON(cert), http.StatusCreated)
}

// VerifyCertification is a public lookup: an invalid result is a
// normal 200 response, and the body never reveals whether the record
// was missing or failed its integrity check.
func (h *HTTPHandler) VerifyCertification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "certification_id")

	cert, valid, err := h.certs.Verify(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	if !valid {
		verifications.WithLabelValues("invalid").Inc()
		utils.WriteJSON(w, VerifyResponse{Valid: false}, http.StatusOK)
		return
	}

	verifications.WithLabelValues("valid").Inc()
	utils.WriteJSON(w, VerifyResponse{Valid: true, Certification: CertificationToJSON(cert)}, http.StatusOK)
}

func (h *HTTPHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation   entities.ValidationError
		precondition entities.PreconditionError
	)

	switch {
	case errors.As(err, &validation):
		utils.WriteError(w, validation.Error(), http.StatusBadRequest)
	case errors.Is(err, entities.ErrDiscountInvalid):
		utils.WriteError(w, "discount code is invalid or expired", http.StatusBadRequest)
	case errors.As(err, &precondition):
		utils.WriteError(w, precondition.Error(), http.StatusConflict)
	case errors.Is(err, entities.ErrAlreadyIssued):
		utils.WriteError(w, "certification already issued for this order", http.StatusConflict)
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, client.ErrUnsupportedFormat):
		utils.WriteError(w, "document format is not supported", http.StatusUnprocessableEntity)
	case errors.Is(err, client.ErrProcessingTimeout):
		utils.WriteError(w, "document processing timed out, try a smaller file", http.StatusGatewayTimeout)
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
