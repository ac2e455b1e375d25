package export

import (
	"fmt"
	"time"
)

// Filename builds a download name of the form
// {entity}_{filter}_{YYYYMMDD}.{ext}, e.g. jobs_week_20250312.xlsx.
func Filename(entity, filter string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", entity, filter, now.Format("20060102"), ext)
}
