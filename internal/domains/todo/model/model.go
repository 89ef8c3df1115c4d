package model

const (
	EntityName = "todo"

	// DefaultAccountCapacity is the size of the storage region allocated on the first add.
	DefaultAccountCapacity = 1024
)

// Instruction tags on the wire.
const (
	TagAddItem  byte = 0
	TagMarkDone byte = 1
)

// Item is a single to-do entry. Only Done ever changes, and only from false to true.
type Item struct {
	Name      string `json:"name"`
	Done      bool   `json:"done"`
	CreatedAt uint64 `json:"created_at"`
}

// TodoAccount is the collection persisted in the program-owned storage region.
type TodoAccount struct {
	Todos []Item `json:"todos"`
}

// Find returns the index of the first item with the given name, or -1.
func (a *TodoAccount) Find(name string) int {
	for i := range a.Todos {
		if a.Todos[i].Name == name {
			return i
		}
	}

	return -1
}

// Instruction is the closed set of commands the program accepts.
type Instruction interface {
	Tag() byte
	isInstruction()
}

type AddItem struct {
	Name string
}

type MarkDone struct {
	Name string
}

func (AddItem) Tag() byte  { return TagAddItem }
func (MarkDone) Tag() byte { return TagMarkDone }

func (AddItem) isInstruction()  {}
func (MarkDone) isInstruction() {}
