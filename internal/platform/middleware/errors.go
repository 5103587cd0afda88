package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// ErrorHandler renders errors as {"error": "..."}. echo.HTTPErrors keep
// their code and message; anything else is a logged 500.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Internal != nil && code >= http.StatusInternalServerError {
				logger.Error().Err(he.Internal).Str("request_id", GetRequestID(c)).Msg("request failed")
			}
			switch m := he.Message.(type) {
			case string:
				msg = m
			case error:
				msg = m.Error()
			case nil:
				msg = http.StatusText(code)
			default:
				msg = fmt.Sprint(m)
			}
		} else {
			logger.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("unhandled error")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, ErrorBody{Error: msg})
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}
