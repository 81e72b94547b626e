package identifier

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// Source supplies random integers in [0, n)
type Source interface {
	Intn(n int) int
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant
type FixedClock time.Time

// Now returns the fixed instant
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Generator produces human-facing document numbers
type Generator struct {
	clock Clock
	rand  Source
}

// NewGenerator creates a generator using the given clock and random source
func NewGenerator(clock Clock, rand Source) *Generator {
	return &Generator{clock: clock, rand: rand}
}

// NewSystemGenerator creates a generator seeded from the wall clock
func NewSystemGenerator() *Generator {
	return NewGenerator(SystemClock{}, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// Now returns the generator's current time
func (g *Generator) Now() time.Time {
	return g.clock.Now()
}

// Today returns the current date as YYYY-MM-DD
func (g *Generator) Today() string {
	return g.clock.Now().Format("2006-01-02")
}

// PrescriptionNo returns P{YY}{MM}-{DD}{RRRR}
func (g *Generator) PrescriptionNo() string {
	return g.datedNumber("P")
}

// ContactLensPrescriptionNo returns CL{YY}{MM}-{DD}{RRRR}
func (g *Generator) ContactLensPrescriptionNo() string {
	return g.datedNumber("CL")
}

func (g *Generator) datedNumber(prefix string) string {
	now := g.clock.Now()
	return fmt.Sprintf("%s%s%s-%s%04d", prefix, now.Format("06"), now.Format("01"), now.Format("02"), g.rand.Intn(10000))
}

// ReferenceNo returns the prescription number when one is given,
// otherwise REF{YY}{MM}-{RRRRR}
func (g *Generator) ReferenceNo(prescriptionNo string) string {
	if prescriptionNo != "" {
		return prescriptionNo
	}
	now := g.clock.Now()
	return fmt.Sprintf("REF%s%s-%05d", now.Format("06"), now.Format("01"), g.rand.Intn(100000))
}

// OrderNo returns ORD-{unix millis}
func (g *Generator) OrderNo() string {
	return "ORD-" + strconv.FormatInt(g.clock.Now().UnixMilli(), 10)
}

// ItemCode returns the prefix followed by the last four digits of the
// current unix millis
func (g *Generator) ItemCode(prefix string) string {
	millis := strconv.FormatInt(g.clock.Now().UnixMilli(), 10)
	if len(millis) > 4 {
		millis = millis[len(millis)-4:]
	}
	return strings.ToUpper(prefix) + millis
}

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
