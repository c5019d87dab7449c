package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/garnizeh/jobdesk/internal/service"
	"github.com/garnizeh/jobdesk/pkg/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "numeric", "number":
		return fmt.Sprintf("The %s field must be a number.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}

// validateRequest runs struct tag validation and converts failures into a
// *ValidationError keyed by JSON field name.
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Add(fe.Field(), fieldMessage(fe))
	}
	return out
}

var jsonNumberType = reflect.TypeOf(json.Number(""))

// decodeJSON reads the request body into dst. An empty body leaves dst at its
// zero value so required-field rules report what is missing.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := strings.ReplaceAll(typeErr.Field, "_", " ")
		msg := fmt.Sprintf("The %s field must be a string.", field)
		if typeErr.Type == jsonNumberType {
			msg = fmt.Sprintf("The %s field must be a number.", field)
		}
		v := &ValidationError{}
		v.Add(typeErr.Field, msg)
		return v
	}
	return fmt.Errorf("%w: %v", errMalformedBody, err)
}

type jobListRequest struct {
	Q         string `json:"q" validate:"omitempty,max=255"`
	Status    string `json:"status" validate:"omitempty,numeric,oneof=1 2 3 4 5"`
	Sort      string `json:"sort" validate:"omitempty,oneof=id label status created_at updated_at"`
	Direction string `json:"direction" validate:"omitempty,oneof=asc desc"`
	Page      string `json:"page" validate:"omitempty,number"`
	With      string `json:"with"`
}

func newJobListRequest(q url.Values) jobListRequest {
	return jobListRequest{
		Q:         q.Get("q"),
		Status:    q.Get("status"),
		Sort:      q.Get("sort"),
		Direction: q.Get("direction"),
		Page:      q.Get("page"),
		With:      q.Get("with"),
	}
}

// toServiceRequest validates the query and converts it for JobService.
func (req jobListRequest) toServiceRequest(businessID int64) (service.ListJobsRequest, error) {
	if err := validateRequest(req); err != nil {
		return service.ListJobsRequest{}, err
	}

	out := service.ListJobsRequest{
		BusinessID: businessID,
		Query:      req.Q,
		Sort:       req.Sort,
		Direction:  req.Direction,
	}
	if req.Status != "" {
		n, _ := strconv.Atoi(req.Status)
		st := models.JobStatus(n)
		out.Status = &st
	}
	if req.Page != "" {
		n, err := strconv.Atoi(req.Page)
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(req.Page, "-") {
			// left for jobquery.Build to reject against MaxPage
			n, err = math.MaxInt, nil
		}
		if err != nil || n < 1 {
			v := &ValidationError{}
			v.Add("page", "The page field must be at least 1.")
			return service.ListJobsRequest{}, v
		}
		out.Page = n
	}
	return out, nil
}

type updateStatusRequest struct {
	Status json.Number `json:"status" validate:"required,numeric,oneof=1 2 3 4 5"`
}

func (req updateStatusRequest) status() models.JobStatus {
	n, _ := strconv.Atoi(req.Status.String())
	return models.JobStatus(n)
}

type noteRequest struct {
	Note string `json:"note" validate:"required,min=5,max=255"`
}

// normalize trims surrounding whitespace before validation.
func (req *noteRequest) normalize() {
	req.Note = strings.TrimSpace(req.Note)
}

type tokenRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	DeviceName string `json:"device_name" validate:"required"`
}
