package api

import (
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"

	"github.com/Artexxx/HR-Employees-CSV/internal/dto"
)

var (
	ErrEmployeeNotFound = errors.New("Employee not found")
	ErrValidation       = errors.New("validation failed")

	errInternal = errors.New("Internal Server Error")
)

type okResponse struct {
	Status string `json:"status" example:"ok"`
	Msg    string `json:"msg" example:"OK"`
}

type messageResponse struct {
	Message string `json:"message" example:"Employee deleted successfully"`
}

type addedResponse struct {
	Message string `json:"message" example:"Employee added successfully"`
	ID      int    `json:"id" example:"42"` // Позиция новой строки в наборе данных, не Employee_ID
}

type detailResponse struct {
	Detail string `json:"detail" example:"Employee updated successfully"`
}

type welcomeResponse struct {
	Massage string `json:"massage" example:"Welcome to Employee Management System."`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	Code    string           `json:"code" example:"Unprocessable Entity"`
	Message string           `json:"message" example:"validation failed"`
	Fields  []dto.FieldError `json:"fields"`
}

func writeJSON(ctx *fasthttp.RequestCtx, statusCode int, body any) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.SetStatusCode(statusCode)

	_ = json.NewEncoder(ctx).Encode(body)
}

func ok(ctx *fasthttp.RequestCtx, msg string) {
	writeJSON(ctx, fasthttp.StatusOK, okResponse{Status: "ok", Msg: msg})
}

func writeError(ctx *fasthttp.RequestCtx, httpStatus int, err error) {
	writeJSON(ctx, httpStatus, errorResponse{Code: fasthttp.StatusMessage(httpStatus), Message: err.Error()})
}

func writeValidationError(ctx *fasthttp.RequestCtx, fields []dto.FieldError) {
	writeJSON(ctx, fasthttp.StatusUnprocessableEntity, validationErrorResponse{
		Code:    fasthttp.StatusMessage(fasthttp.StatusUnprocessableEntity),
		Message: ErrValidation.Error(),
		Fields:  fields,
	})
}
