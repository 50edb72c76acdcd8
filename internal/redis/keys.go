package redisx

import "fmt"

const ns = "posgo:v1"

func KeyReportSummary(from, to string) string {
	return fmt.Sprintf("%s:reports:summary:%s:%s", ns, from, to)
}

func PatternReportKeys() string {
	return ns + ":reports:*"
}

// PrefixRateLimit is handed to the limiter, which appends its own suffix.
func PrefixRateLimit() string {
	return ns + ":rl"
}

func ChannelFloorChanged() string {
	return ns + ":floor:changed"
}
