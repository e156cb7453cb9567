package audit

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/investtrack/backend/internal/domain/audit"
	"github.com/investtrack/backend/internal/domain/shared"
)

const maxCommonErrors = 5

// Fixed recommendation texts keyed by what the status codes indicate.
const (
	hintInputValidation = "Review your input validation - many 400 errors suggest data format issues."
	hintAuthFlow        = "Check your authentication flow - 401 errors indicate login/session issues."
	hintAuthorization   = "Review your authorization logic - 403 errors suggest permission problems."
	hintServerIssues    = "Investigate server-side issues - 500 errors need immediate attention."
	hintGeneric         = "Consider implementing better error handling and user feedback mechanisms."

	noErrorsMessage = "No errors found in your recent activity. Great job!"
	noErrorsHint    = "Continue following best practices to maintain this clean error record."
)

// LogService handles transaction log operations
type LogService struct {
	logRepo audit.TransactionLogRepository
	logger  *zap.Logger
}

// NewLogService creates a new LogService
func NewLogService(logRepo audit.TransactionLogRepository, logger *zap.Logger) *LogService {
	return &LogService{logRepo: logRepo, logger: logger}
}

// Record appends one API transaction to the log. Failures are logged and
// swallowed so auditing never breaks request handling.
func (s *LogService) Record(ctx context.Context, userID *uuid.UUID, email, endpoint, method string, statusCode int, errorMessage string) {
	entry := audit.NewTransactionLog(userID, email, endpoint, method, statusCode, errorMessage)
	if err := s.logRepo.Append(ctx, entry); err != nil {
		s.logger.Error("failed to record transaction log",
			zap.String("endpoint", endpoint),
			zap.Error(err))
	}
}

// List returns a page of transaction logs, newest first
func (s *LogService) List(ctx context.Context, filter LogListFilter) (*LogListResponse, error) {
	return s.list(ctx, s.toDomainFilter(filter))
}

// ListForUser returns one user's transaction logs. Callers may only read
// their own logs.
func (s *LogService) ListForUser(ctx context.Context, requesterID, userID uuid.UUID, filter LogListFilter) (*LogListResponse, error) {
	if requesterID != userID {
		return nil, shared.ErrForbidden
	}

	domainFilter := s.toDomainFilter(filter)
	domainFilter.UserID = &userID
	return s.list(ctx, domainFilter)
}

// ListForEmail returns the transaction logs recorded under an email
// address. Callers may only read logs for their own email.
func (s *LogService) ListForEmail(ctx context.Context, requesterEmail, email string, filter LogListFilter) (*LogListResponse, error) {
	requesterEmail = strings.ToLower(strings.TrimSpace(requesterEmail))
	email = strings.ToLower(strings.TrimSpace(email))
	if requesterEmail == "" || requesterEmail != email {
		return nil, shared.ErrForbidden
	}

	domainFilter := s.toDomainFilter(filter)
	domainFilter.Email = email
	return s.list(ctx, domainFilter)
}

func (s *LogService) toDomainFilter(filter LogListFilter) audit.LogFilter {
	domainFilter := audit.DefaultLogFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 200 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.StatusCode = filter.StatusCode
	domainFilter.HTTPMethod = filter.HTTPMethod
	return domainFilter
}

func (s *LogService) list(ctx context.Context, domainFilter audit.LogFilter) (*LogListResponse, error) {
	logs, total, err := s.logRepo.Find(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	return &LogListResponse{
		Logs:     ToLogResponses(logs),
		Page:     domainFilter.Page,
		PageSize: domainFilter.PageSize,
		Total:    total,
	}, nil
}

// ErrorSummary digests error-status log entries into the top status groups
// and one fixed recommendation per status family present
func (s *LogService) ErrorSummary(ctx context.Context) (*ErrorSummaryResponse, error) {
	errorLogs, err := s.logRepo.FindErrors(ctx, nil)
	if err != nil {
		return nil, err
	}
	return s.buildErrorSummary(errorLogs), nil
}

// ErrorSummaryForUser digests one user's error activity. Callers may only
// read their own summary.
func (s *LogService) ErrorSummaryForUser(ctx context.Context, requesterID, userID uuid.UUID) (*ErrorSummaryResponse, error) {
	if requesterID != userID {
		return nil, shared.ErrForbidden
	}

	errorLogs, err := s.logRepo.FindErrors(ctx, &userID)
	if err != nil {
		return nil, err
	}
	return s.buildErrorSummary(errorLogs), nil
}

func (s *LogService) buildErrorSummary(errorLogs []audit.TransactionLog) *ErrorSummaryResponse {
	if len(errorLogs) == 0 {
		return &ErrorSummaryResponse{
			Message:         noErrorsMessage,
			CommonErrors:    []ErrorGroup{},
			Recommendations: []string{noErrorsHint},
		}
	}

	// Group by status code, preserving first-seen order for tiebreaks.
	type group struct {
		statusCode int
		count      int
		latest     audit.TransactionLog
	}
	groupsByCode := make(map[int]*group)
	var ordered []*group
	for i := range errorLogs {
		entry := &errorLogs[i]
		g, ok := groupsByCode[entry.StatusCode]
		if !ok {
			g = &group{statusCode: entry.StatusCode}
			groupsByCode[entry.StatusCode] = g
			ordered = append(ordered, g)
		}
		g.count++
		if entry.Timestamp.After(g.latest.Timestamp) {
			g.latest = *entry
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].count > ordered[j].count
	})

	total := len(errorLogs)
	commonErrors := make([]ErrorGroup, 0, maxCommonErrors)
	for _, g := range ordered {
		if len(commonErrors) == maxCommonErrors {
			break
		}
		commonErrors = append(commonErrors, ErrorGroup{
			StatusCode:       g.statusCode,
			Count:            g.count,
			Percentage:       float64(g.count) / float64(total) * 100,
			RecentOccurrence: g.latest.Timestamp,
		})
	}

	present := make(map[int]bool, len(groupsByCode))
	serverErrors := false
	for code := range groupsByCode {
		present[code] = true
		if code >= 500 {
			serverErrors = true
		}
	}

	recommendations := []string{}
	if present[400] {
		recommendations = append(recommendations, hintInputValidation)
	}
	if present[401] {
		recommendations = append(recommendations, hintAuthFlow)
	}
	if present[403] {
		recommendations = append(recommendations, hintAuthorization)
	}
	if serverErrors {
		recommendations = append(recommendations, hintServerIssues)
	}
	if len(groupsByCode) > 3 {
		recommendations = append(recommendations, hintGeneric)
	}

	return &ErrorSummaryResponse{
		Message:         fmt.Sprintf("Found %d errors in your recent activity. Here's what we found:", total),
		CommonErrors:    commonErrors,
		Recommendations: recommendations,
		TotalErrors:     total,
	}
}
