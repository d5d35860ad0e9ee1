package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/vestafn/vesta/internal/app/orchestrator/invoker"
	"github.com/vestafn/vesta/internal/app/orchestrator/models"
	"github.com/vestafn/vesta/internal/app/orchestrator/operator"
	"github.com/vestafn/vesta/pkg/health"
	"github.com/vestafn/vesta/pkg/logger"
)

var log = logger.NewLogger("vesta.orchestrator.rest")

// IndexOperationRequest is the payload of the index endpoint. A register
// operation carries either a connection string or the name of an already
// registered account; the account resolver enforces that.
type IndexOperationRequest struct {
	Kind             string `json:"kind" validate:"required,oneof=register delete"`
	ConnectionString string `json:"connectionString"`
	AccountName      string `json:"accountName"`
	ContainerPath    string `json:"containerPath" validate:"required_if=Kind register"`
	FunctionId       string `json:"functionId" validate:"required_if=Kind delete"`
}

// AttemptClaimRequest is the caller's view of the retry context.
type AttemptClaimRequest struct {
	CurrentAttempt int `json:"currentAttempt" validate:"min=0"`
	MaxAttempts    int `json:"maxAttempts" validate:"min=0"`
}

// InvokeFunctionRequest is the payload of the invocation endpoint.
type InvokeFunctionRequest struct {
	CorrelationId string               `json:"correlationId"`
	Reset         bool                 `json:"reset"`
	Claim         *AttemptClaimRequest `json:"claim"`
	Input         json.RawMessage      `json:"input"`
}

type RestHandler interface {
	RegisterHandlers(e *echo.Echo)
}

type restHandler struct {
	orchestratorOperator operator.OrchestratorOperator
	healthStatusProvider health.Provider
}

// NewRestHandler creates a new RestHandler.
func NewRestHandler(orchestratorOperator operator.OrchestratorOperator, healthStatusProvider health.Provider) RestHandler {
	return &restHandler{
		orchestratorOperator: orchestratorOperator,
		healthStatusProvider: healthStatusProvider,
	}
}

// RegisterHandlers registers the REST API handlers.
func (r *restHandler) RegisterHandlers(e *echo.Echo) {
	e.GET("/healthz", r.health)

	apiV1 := e.Group("/api/v1")
	apiV1.Use(requestInterceptor)

	apiV1.POST("/index", r.index, requestValidator(func() interface{} {
		return new(IndexOperationRequest)
	}))
	apiV1.GET("/functions", r.listFunctions)
	apiV1.DELETE("/functions/:id", r.deleteFunction)
	apiV1.POST("/functions/:id/invoke", r.invokeFunction, requestValidator(func() interface{} {
		return new(InvokeFunctionRequest)
	}))
	apiV1.GET("/invocations/:correlationId", r.invocationHistory)
}

func (r *restHandler) health(c echo.Context) error {
	if !r.healthStatusProvider.Healthy() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (r *restHandler) index(c echo.Context) error {
	req := c.Get("validatedRequest").(*IndexOperationRequest)

	result, err := r.orchestratorOperator.ProcessIndexOperation(c.Request().Context(), models.IndexOperation{
		Kind:             models.IndexOperationKind(req.Kind),
		ConnectionString: req.ConnectionString,
		AccountName:      req.AccountName,
		ContainerPath:    req.ContainerPath,
		FunctionId:       req.FunctionId,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (r *restHandler) listFunctions(c echo.Context) error {
	return c.JSON(http.StatusOK, r.orchestratorOperator.ListFunctions())
}

func (r *restHandler) deleteFunction(c echo.Context) error {
	result, err := r.orchestratorOperator.ProcessIndexOperation(c.Request().Context(), models.IndexOperation{
		Kind:       models.IndexOperationDelete,
		FunctionId: c.Param("id"),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// Deleting an unknown function is not an error, the result carries the
	// outcome as a boolean.
	return c.JSON(http.StatusOK, result)
}

func (r *restHandler) invokeFunction(c echo.Context) error {
	req := c.Get("validatedRequest").(*InvokeFunctionRequest)

	invokeRequest := operator.InvokeRequest{
		CorrelationId: req.CorrelationId,
		Reset:         req.Reset,
		Input:         req.Input,
	}
	if req.Claim != nil {
		invokeRequest.Claim = &invoker.AttemptClaim{
			Current: req.Claim.CurrentAttempt,
			Max:     req.Claim.MaxAttempts,
		}
	}

	outcome, err := r.orchestratorOperator.InvokeFunction(c.Request().Context(), c.Param("id"), invokeRequest)
	if err != nil {
		switch {
		case errors.Is(err, operator.ErrFunctionNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case invoker.IsExhausted(err):
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		case invoker.IsConsistencyError(err):
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, outcome)
}

func (r *restHandler) invocationHistory(c echo.Context) error {
	entries, err := r.orchestratorOperator.InvocationAttempts(c.Request().Context(), c.Param("correlationId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

// requestInterceptor creates a middleware for handling errors.
func requestInterceptor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			httpError, ok := err.(*echo.HTTPError)
			if !ok {
				log.Errorf("unhandled error in request handler: %v", err)
				return c.JSON(http.StatusInternalServerError, map[string]interface{}{
					"status":  "Internal Server Error",
					"message": err.Error(),
				})
			}
			// Use the message from HTTPError to maintain custom error formatting.
			return c.JSON(httpError.Code, map[string]interface{}{
				"status":  http.StatusText(httpError.Code),
				"message": httpError.Message,
			})
		}
		return nil
	}
}

// requestValidator creates a middleware for validating requests.
func requestValidator(factoryFunc func() interface{}) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := factoryFunc()
			// Bind and validate the request.
			if err := validateRequest(c, req); err != nil {
				return err
			}
			c.Set("validatedRequest", req)
			return next(c)
		}
	}
}

// validateRequest binds and validates the request.
func validateRequest(c echo.Context, req interface{}) error {
	validate := validator.New()

	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Failed to bind request body: %s", err.Error()))
	}

	if err := validate.Struct(req); err != nil {
		// Check if the errors are ValidationErrors and return them directly.
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return echo.NewHTTPError(http.StatusBadRequest, validationErrorResponse(validationErrors))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Error during request validation: %s", err.Error()))
	}
	return nil
}

// validationErrorResponse formats validation errors for the response.
func validationErrorResponse(err validator.ValidationErrors) map[string]interface{} {
	errorsMap := make(map[string]string)
	for _, e := range err {
		errorsMap[e.Field()] = e.Error()
	}

	return map[string]interface{}{
		"status":  "Bad Request",
		"message": "Validation Error",
		"errors":  errorsMap,
	}
}
