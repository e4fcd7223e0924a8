package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ailetic/entity"
	"ailetic/pkg/logger"
)

type computeRoutes struct {
	uc entity.ComputeUsecase
	l  logger.Interface
}

type computeResponse struct {
	Result string `json:"result" example:"iVBORw0KGgo..."`
}

func newComputeRoutes(handler *gin.RouterGroup, uc entity.ComputeUsecase, l logger.Interface) {
	r := &computeRoutes{uc, l}

	for _, route := range uc.Routes() {
		for _, method := range route.Methods {
			handler.Handle(method, "/"+route.Path, r.compute(route.Path))
		}
		l.Info("registered compute route %s %v (%s)", route.Path, route.Methods, route.Kind)
	}
}

// @Summary     Run a compute pipeline
// @Description Pre-processes the uploaded file or the data field, runs the route's transform and returns the encoded result as base64.
// @ID          compute
// @Tags  	    compute
// @Accept      multipart/form-data
// @Produce     json
// @Param       route path     string true  "registered route path"
// @Param       file  formData file   false "image upload"
// @Param       data  formData string false "text input"
// @Success     200   {object} computeResponse
// @Failure     400   {object} response
// @Failure     404   {object} response
// @Failure     500   {object} response
// @Router      /{route} [post]
func (r *computeRoutes) compute(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := otel.Tracer(traceName).Start(c.Request.Context(), "compute-api",
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		span.SetAttributes(attribute.String("route", path))

		in, err := readInput(c)
		if err != nil {
			r.l.Error(fmt.Errorf("http - v1 - compute - read input: %w", err))
			errorResponse(c, http.StatusBadRequest, "invalid upload")
			return
		}

		res, err := r.uc.Compute(ctx, path, in)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, computeResponse{res.Encoded})
		case errors.Is(err, entity.ErrMissingInput):
			errorResponse(c, http.StatusBadRequest, entity.ErrMissingInput.Error())
		case errors.Is(err, entity.ErrRouteNotFound):
			errorResponse(c, http.StatusNotFound, entity.ErrRouteNotFound.Error())
		default:
			r.l.Error(fmt.Errorf("http - v1 - compute %s: %w", path, err))
			errorResponse(c, http.StatusInternalServerError, "failed to process request")
		}
	}
}

// readInput prefers a non-empty multipart file field and falls back to the
// data form field.
func readInput(c *gin.Context) (entity.Input, error) {
	var in entity.Input

	fh, err := c.FormFile("file")
	if err == nil {
		f, err := fh.Open()
		if err != nil {
			return in, err
		}
		defer f.Close()

		body, err := io.ReadAll(f)
		if err != nil {
			return in, err
		}
		if len(body) > 0 {
			in.File = body
			in.Filename = fh.Filename
			return in, nil
		}
	}

	in.Text = c.PostForm("data")
	return in, nil
}
