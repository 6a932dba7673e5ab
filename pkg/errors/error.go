package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// ValidationError represents a request that failed validation. Individual
	// violations carry one of the more specific codes below.
	ValidationError ErrorCode = "validation_error"
	// EmptySymbolsError is returned when a request carries no symbols.
	EmptySymbolsError ErrorCode = "empty_symbols_error"
	// TooManySymbolsError is returned when a request exceeds the symbol limit.
	TooManySymbolsError ErrorCode = "too_many_symbols_error"
	// InvalidSymbolError is returned when a symbol does not match the symbol grammar.
	InvalidSymbolError ErrorCode = "invalid_symbol_error"
	// InvalidFrequencyError is returned for an unsupported bar frequency.
	InvalidFrequencyError ErrorCode = "invalid_frequency_error"
	// InvalidDateRangeError is returned when start is not before end.
	InvalidDateRangeError ErrorCode = "invalid_date_range_error"
	// FutureStartDateError is returned when the start date lies in the future.
	FutureStartDateError ErrorCode = "future_start_date_error"
	// DateRangeTooLongError is returned when the range exceeds the max lookback.
	DateRangeTooLongError ErrorCode = "date_range_too_long_error"
	// InvalidMaxRecordsError is returned when maxRecords is not positive.
	InvalidMaxRecordsError ErrorCode = "invalid_max_records_error"
	// InvalidDateFormatError is returned when a date string cannot be parsed.
	InvalidDateFormatError ErrorCode = "invalid_date_format_error"

	// CircuitOpenError is returned when a breaker rejects a call without running it.
	CircuitOpenError ErrorCode = "circuit_open_error"
	// CircuitTimeoutError is returned when a guarded operation exceeds its deadline.
	CircuitTimeoutError ErrorCode = "circuit_timeout_error"

	// UpstreamError represents a transport or parse failure from the data provider.
	UpstreamError ErrorCode = "upstream_error"

	// CacheCapacityError is returned when a single payload is larger than the cache.
	CacheCapacityError ErrorCode = "cache_capacity_error"
	// CachePatternError is returned when an invalidation pattern does not compile.
	CachePatternError ErrorCode = "cache_pattern_error"

	// AggregationPreconditionError is returned when the target frequency is not coarser than the source.
	AggregationPreconditionError ErrorCode = "aggregation_precondition_error"
	// AggregationError wraps a failure while reading or aggregating source bars.
	AggregationError ErrorCode = "aggregation_error"

	// SavedQueryNotFoundError is returned when a saved query id does not exist.
	SavedQueryNotFoundError ErrorCode = "saved_query_not_found"
	// SavedQueryDuplicateError is returned when a saved query name is already taken.
	SavedQueryDuplicateError ErrorCode = "saved_query_duplicate_name"

	// KafkaPublishError represents an error when writing messages to Kafka.
	KafkaPublishError ErrorCode = "kafka_publish_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisScanError represents an error when scanning keys in Redis.
	RedisScanError ErrorCode = "redis_scan_error"
)

// BaseError is an `error` type containing an array of ErrorDetails.
// It is used wherever several independent violations must be reported together.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// HasErrors reports whether at least one ErrorDetails was collected.
func (b *BaseError) HasErrors() bool {
	return len(b.details) > 0
}

// ErrorOrNil returns the BaseError when it holds details, nil otherwise.
func (b *BaseError) ErrorOrNil() error {
	if b == nil || !b.HasErrors() {
		return nil
	}
	return b
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// Messages returns every detail message in insertion order.
func (b *BaseError) Messages() []string {
	out := make([]string, 0, len(b.details))
	for _, d := range b.details {
		out = append(out, d.Message)
	}
	return out
}

// PrependFields prepend all field on ErrorDetails with given prefix. Will skip ErrorDetail without field
func (b *BaseError) PrependFields(prefix string) {
	for _, d := range b.GetDetails() {
		if d.Field == "" {
			continue
		}
		d.Field = fmt.Sprintf("%s%s", prefix, d.Field)
	}
}

// UpdateCode update all code on ErrorDetails with given code
func (b *BaseError) UpdateCode(code string) {
	for _, d := range b.GetDetails() {
		d.Code = code
	}
}

// IsAllCodeEqual check if all ErrorDetails code is equal with given code
func (b *BaseError) IsAllCodeEqual(code string) bool {
	if len(b.details) == 0 {
		return false
	}

	for _, d := range b.GetDetails() {
		if d.Code != code {
			return false
		}
	}
	return true
}

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.GetDetails() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// FieldDetails groups ErrorDetails by field.
func (b *BaseError) FieldDetails() map[string][]*ErrorDetails {
	errMap := make(map[string][]*ErrorDetails)
	for _, detail := range b.details {
		errMap[detail.Field] = append(errMap[detail.Field], detail)
	}
	return errMap
}

// IsValidation reports whether err is a rejected request: a BaseError of
// collected violations or a detail carrying ValidationError.
func IsValidation(err error) bool {
	var base *BaseError
	if stderrors.As(err, &base) {
		return true
	}
	return HasCode(err, ValidationError)
}
