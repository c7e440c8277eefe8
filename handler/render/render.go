package render

import (
	"encoding/json"
	"errors"
	"net/http"

	"lendpool/core"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// Text render with text
func Text(w http.ResponseWriter, t string) {
	w.Header().Set("Content-Type", "application/text")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(t)); err != nil {
		logrus.WithError(err).Errorln("render text")
	}
}

// Error write error
func Error(w http.ResponseWriter, statusCode, errCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	enc := json.NewEncoder(w)
	body := H{"code": errCode, "msg": err.Error()}

	var e *core.Error
	if errors.As(err, &e) {
		body["kind"] = e.Code.Kind()
	}

	if err := enc.Encode(body); err != nil {
		logrus.WithError(err).Errorln("render error")
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, -1, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, -1, err)
}

// Unauthorized missing or unknown credentials
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, -1, errors.New("unauthorized"))
}

// Err writes a pool error with the status matching its kind
func Err(w http.ResponseWriter, err error) {
	code := core.CodeOf(err)
	Error(w, Status(err), int(code), err)
}

// Status http status of a pool error
func Status(err error) int {
	if core.CodeOf(err) == core.ErrTokenNotSupported {
		return http.StatusNotFound
	}

	switch core.KindOf(err) {
	case core.KindValidation, core.KindSlippage:
		return http.StatusBadRequest
	case core.KindPermission:
		return http.StatusForbidden
	case core.KindState, core.KindSelfAction:
		return http.StatusConflict
	case core.KindLiquidity, core.KindSolvency:
		return http.StatusUnprocessableEntity
	case core.KindOracle:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
