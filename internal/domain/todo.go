package domain

// Todo is a persisted todo item. ID is assigned by the store on insert and
// never changes afterwards.
type Todo struct {
	ID        string
	Title     string
	Completed bool
}
