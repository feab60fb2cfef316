// Package basic is the acceptance scenario for everyday interface mocking.
package basic

//go:generate go run ../../moxygen BasicOps

// BasicOps covers single and multiple return values, void methods, and variadic arguments.
type BasicOps interface {
	// Add is a simple method with parameters and a single return value.
	Add(a, b int) int

	// Store has multiple return values (common for error handling).
	Store(key string, value any) (int, error)

	// Log has no return values.
	Log(message string)

	// Notify takes variadic arguments.
	Notify(message string, ids ...int) bool
}

// PerformOps drives a BasicOps and reports what it saw.
func PerformOps(ops BasicOps) (sum int, stored error, notified bool) {
	const (
		val1 = 1
		val2 = 2
		val3 = 3
	)

	sum = ops.Add(val1, val2)
	_, stored = ops.Store("foo", "bar")
	ops.Log("action performed")
	notified = ops.Notify("alert", val1, val2, val3)

	return sum, stored, notified
}
