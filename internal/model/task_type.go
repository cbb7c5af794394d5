package model

import (
	"fmt"
	"strings"
)

// TaskType classifies a demand by cognitive mode.
type TaskType string

const (
	TypeThink   TaskType = "THINK"
	TypeRespond TaskType = "RESPOND"
	TypeExecute TaskType = "EXECUTE"
)

// TypeInfo holds everything the UIs and the admission policy need to know
// about a task type.
type TypeInfo struct {
	Type  TaskType
	Label string // Portuguese name shown to the user
	Tag   string // upper-case tag used in messages and filters
	Icon  string
	Color string // hex colour for terminal styling
	Limit int    // default open-task quota
}

// Types is ordered the way filters are presented.
var Types = []TaskType{TypeRespond, TypeThink, TypeExecute}

var typeTable = map[TaskType]TypeInfo{
	TypeThink:   {Type: TypeThink, Label: "Pensar", Tag: "PENSAR", Icon: "💡", Color: "#EAB308", Limit: 10},
	TypeRespond: {Type: TypeRespond, Label: "Responder", Tag: "RESPONDER", Icon: "💬", Color: "#3B82F6", Limit: 15},
	TypeExecute: {Type: TypeExecute, Label: "Executar", Tag: "EXECUTAR", Icon: "⚡", Color: "#22C55E", Limit: 7},
}

// Info returns the lookup entry for t. Unknown types fall back to EXECUTE.
func (t TaskType) Info() TypeInfo {
	if info, ok := typeTable[t]; ok {
		return info
	}
	return typeTable[TypeExecute]
}

// Valid reports whether t is one of the three known types.
func (t TaskType) Valid() bool {
	_, ok := typeTable[t]
	return ok
}

func (t TaskType) String() string {
	return string(t)
}

// ParseTaskType accepts English or Portuguese names in any case.
func ParseTaskType(raw string) (TaskType, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	for _, info := range typeTable {
		if value == string(info.Type) || value == info.Tag || value == strings.ToUpper(info.Label) {
			return info.Type, nil
		}
	}
	return "", fmt.Errorf("unknown task type %q", raw)
}
