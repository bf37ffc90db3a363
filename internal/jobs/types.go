package jobs

const (
	TaskRegenerateIndex    = "index:regenerate"
	TaskRegenerateAllIndex = "index:regenerate_all"
)

type RegenerateIndexPayload struct {
	Community string `json:"community"`
}
