package errors

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// toAppError returns err as an *AppError, wrapping plain errors as internal.
func toAppError(err error) *AppError {
	if ae, ok := as(err); ok {
		return ae
	}
	return Wrap(ErrCodeInternal, err)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FormatForUser returns the message, suggestion and code of err. Plain errors
// are returned as is. With debug set the cause is included.
func FormatForUser(err error, debug bool) string {
	if err == nil {
		return ""
	}
	ae, ok := as(err)
	if !ok {
		return err.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", ae.Message)
	if ae.Suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", ae.Suggestion)
	}
	if debug && ae.Cause != nil {
		fmt.Fprintf(&sb, "\nCause: %s\n", ae.Cause)
	}
	fmt.Fprintf(&sb, "\n[%s]", ae.Code)
	return sb.String()
}

// FormatForCLI renders err for the terminal: the message, the cause when it
// adds information, each detail, the hint and the code.
//
//	Error: failed to read input
//	  Cause: open poem.txt: permission denied
//	  path: poem.txt
//	  Code: ERR_202_FILE_PERMISSION
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}
	ae := toAppError(err)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", ae.Message)
	if ae.Cause != nil && ae.Cause.Error() != ae.Message {
		fmt.Fprintf(&sb, "  Cause: %s\n", ae.Cause)
	}
	for _, k := range sortedKeys(ae.Details) {
		fmt.Fprintf(&sb, "  %s: %s\n", k, ae.Details[k])
	}
	if ae.Suggestion != "" {
		fmt.Fprintf(&sb, "  Hint: %s\n", ae.Suggestion)
	}
	fmt.Fprintf(&sb, "  Code: %s\n", ae.Code)
	return sb.String()
}

// LogAttrs returns slog attributes describing err, for use as
//
//	slog.Error("sync_failed", apperrors.LogAttrs(err)...)
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}
	ae, ok := as(err)
	if !ok {
		return []any{slog.String("error", err.Error())}
	}

	attrs := []any{
		slog.String("error_code", ae.Code),
		slog.String("error", ae.Message),
		slog.String("category", string(ae.Category)),
		slog.Bool("retryable", ae.Retryable),
	}
	if ae.Cause != nil {
		attrs = append(attrs, slog.String("cause", ae.Cause.Error()))
	}
	if len(ae.Details) > 0 {
		group := make([]any, 0, len(ae.Details))
		for _, k := range sortedKeys(ae.Details) {
			group = append(group, slog.String(k, ae.Details[k]))
		}
		attrs = append(attrs, slog.Group("details", group...))
	}
	return attrs
}

