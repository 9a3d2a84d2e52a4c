package calldata

import (
	"fmt"
	"maps"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
)

// Achievements parses {id: {..., tasks: [{id, ...}]}}. Every field is passed
// through except the task ids, which are enums.
func Achievements(doc map[string]any) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(doc))
	for _, id := range indexedKeys(doc) {
		data, err := asMap(doc[id], "achievement")
		if err != nil {
			return nil, withItem(err, "achievement %s", id)
		}
		items, err := asList(data["tasks"], "tasks")
		if err != nil {
			return nil, withItem(err, "achievement %s", id)
		}
		tasks := make([]map[string]any, 0, len(items))
		for i, item := range items {
			task, err := asMap(item, "task")
			if err != nil {
				return nil, withItem(err, "achievement %s task %d", id, i)
			}
			taskID, err := MakeEnum(task["id"], "")
			if err != nil {
				return nil, withItem(err, "achievement %s task %d", id, i)
			}
			task = maps.Clone(task)
			task["id"] = taskID
			tasks = append(tasks, task)
		}
		achievement := maps.Clone(data)
		achievement["id"] = id
		achievement["tasks"] = tasks
		out = append(out, achievement)
	}
	return out, nil
}

// AchievementsCall registers every achievement in one create_achievements.
func AchievementsCall(tag string, doc map[string]any) (domain.Call, error) {
	achievements, err := Achievements(doc)
	if err != nil {
		return domain.Call{}, err
	}
	return domain.Call{
		Tag:         tag,
		Entrypoint:  "create_achievements",
		Args:        map[string]any{"achievements": achievements},
		Description: fmt.Sprintf("%d achievements", len(achievements)),
	}, nil
}
