package dom

// NoHandle помечает узлы, которых нет в реестре живой страницы.
const NoHandle = -1

type MutationOp string

const (
	OpSet       MutationOp = "set"
	OpRemoveAll MutationOp = "remove-all"
)

// Mutation - одно изменение атрибута, которое нужно повторить на живой странице.
type Mutation struct {
	Op     MutationOp `json:"op"`
	Handle int        `json:"handle"`
	Name   string     `json:"name"`
	Value  string     `json:"value,omitempty"`
}
