package trafficstats

import "fmt"

var binaryUnits = []string{"B", "KiB", "MiB", "GiB"}

func FormatRate(bytesPerSecond uint64) string {
	return formatBinary(float64(bytesPerSecond), "/s")
}

func FormatTotal(bytes uint64) string {
	return formatBinary(float64(bytes), "")
}

func formatBinary(value float64, suffix string) string {
	unitIdx := 0
	for value >= 1024 && unitIdx < len(binaryUnits)-1 {
		value /= 1024
		unitIdx++
	}

	if unitIdx == 0 {
		return fmt.Sprintf("%.0f %s%s", value, binaryUnits[unitIdx], suffix)
	}
	return fmt.Sprintf("%.1f %s%s", value, binaryUnits[unitIdx], suffix)
}

// Line renders s for a periodic log line.
func (s Snapshot) Line() string {
	return fmt.Sprintf(
		"tx %d frames / %s (%s), rx %d frames / %s (%s)",
		s.TXFramesTotal, FormatTotal(s.TXBytesTotal), FormatRate(s.TXRate),
		s.RXFramesTotal, FormatTotal(s.RXBytesTotal), FormatRate(s.RXRate),
	)
}
