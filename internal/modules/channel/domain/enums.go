//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// CaptureMode governs how far back in time and id-space a channel's messages
// are eligible for extraction
// ENUM(new_only,last_1_day,last_2_days,unrestricted)
type CaptureMode string

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string
