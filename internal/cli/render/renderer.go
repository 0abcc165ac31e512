package render

// Renderer prints a command result, as text or as JSON
type Renderer[T any] interface {
	Render(result T) error
}
