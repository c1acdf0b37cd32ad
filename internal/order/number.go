package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber returns ORD-<base36 millis>-<4 random chars>.
func NewOrderNumber(now time.Time) string {
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return "ORD-" + stamp + "-" + suffix
}
