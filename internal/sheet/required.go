package sheet

// requiredGroup 必填分组及其字段
type requiredGroup struct {
	name   string
	fields []string
}

// 创建角色时的必填分组表
var requiredGroups = []requiredGroup{
	{
		name: "basicInfo",
		fields: []string{
			"name", "race", "class", "level",
			"alignment", "background", "playerName",
		},
	},
	{
		name: "abilities",
		fields: []string{
			"strength", "dexterity", "constitution",
			"intelligence", "wisdom", "charisma",
		},
	},
	{
		name: "stats",
		fields: []string{
			"ac", "initiative", "speed", "armorClass",
			"hitPointsCurrent", "hitPointsTotal",
			"hitDice", "hitDiceTotal",
		},
	},
	{
		name: "savingThrows",
		fields: []string{
			"strength", "dexterity", "constitution",
			"intelligence", "wisdom",
		},
	},
	{
		name:   "skills",
		fields: skillNames,
	},
}

// CheckRequired 检查必填分组和字段，收集全部缺失项后返回。
// 字段只要求键存在，零值不算缺失。
func CheckRequired(data map[string]any) []string {
	var errs []string

	for _, group := range requiredGroups {
		groupData, ok := data[group.name].(map[string]any)
		if !ok || !truthy(data[group.name]) {
			errs = append(errs, "Missing required group: "+group.name)
			continue
		}

		for _, field := range group.fields {
			if _, present := groupData[field]; !present {
				errs = append(errs, "Missing required field: "+group.name+"."+field)
			}
		}
	}

	return errs
}
