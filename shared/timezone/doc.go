// Package timezone converts ledger timestamps into the application timezone.
//
// Usage Examples:
//
//  1. Current time in the app timezone:
//     now := timezone.Now()
//
//  2. Rendering a to-do created_at value:
//     createdAt := timezone.FromUnix(int64(item.CreatedAt))
//
//  3. Formatting:
//     formatted := timezone.Format(createdAt, time.RFC3339)
//
// The timezone is configured via the APP_TIMEZONE environment variable
// and is initialized when the package is imported. Use IANA names such as
// "UTC", "Asia/Jakarta" or "Europe/London".
package timezone
