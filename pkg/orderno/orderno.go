// Package orderno generates human-facing order numbers.
package orderno

import (
	"fmt"
	"math/rand"
	"time"
)

// Generate returns a 21-digit order number: the current time down to the
// millisecond followed by four random digits. Numbers sort approximately
// chronologically; the random suffix keeps same-millisecond collisions
// unlikely and the unique index on orders catches the rest.
func Generate() string {
	now := time.Now()
	return fmt.Sprintf("%s%03d%04d",
		now.Format("20060102150405"),
		now.Nanosecond()/int(time.Millisecond),
		rand.Intn(10000))
}
