// Package handler はHTTP APIのハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/middleware"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
)

// includeErrorDetail は内部エラーの詳細をレスポンスに含めるかどうか。
// 本番環境ではfalseにし、詳細はログのみに記録する。
var includeErrorDetail = false

// SetIncludeErrorDetail は内部エラー詳細の出力設定を切り替える。
// NewRouterから環境設定に応じて一度だけ呼ばれる。
func SetIncludeErrorDetail(include bool) {
	includeErrorDetail = include
}

// writeSuccess は統一エンベロープで成功レスポンスを書き込む。
func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(middleware.Envelope{
		Success: true,
		Data:    data,
	})
}

// writeSuccessMessage はデータなしの成功レスポンスを書き込む。
func writeSuccessMessage(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(middleware.Envelope{
		Success: true,
		Message: message,
	})
}

// writeInvalidBodyError はリクエストボディの解析失敗レスポンスを書き込む。
func writeInvalidBodyError(w http.ResponseWriter) {
	middleware.WriteErrorResponse(w, http.StatusBadRequest,
		model.NewValidationError("リクエストボディの解析に失敗しました"))
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// APIError以外のエラーは詳細をログのみに記録し、一般的な500レスポンスを返す。
// 非本番環境では調査のためerrorフィールドに内部詳細を含める。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))

	errCode := "INTERNAL_ERROR"
	if includeErrorDetail {
		errCode = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(middleware.Envelope{
		Success: false,
		Message: "内部エラーが発生しました。",
		Error:   errCode,
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation, model.ErrCodeDuplicateEmail, model.ErrCodeDuplicateApplication:
		return http.StatusBadRequest
	case model.ErrCodeUnauthenticated, model.ErrCodeInvalidCredentials, model.ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeJobNotFound, model.ErrCodeApplicationNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeJobNotOpen, model.ErrCodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
