package provider

type Provider = any

type Model struct {
	ID string

	Name string
}
