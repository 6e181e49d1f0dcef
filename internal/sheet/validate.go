package sheet

import (
	"fmt"
	"math"
	"strconv"
)

// 校验用的字段表
var (
	abilityNames = []string{
		"strength", "dexterity", "constitution",
		"intelligence", "wisdom", "charisma",
	}

	skillNames = []string{
		"acrobatics", "animalHandling", "arcana", "athletics",
		"deception", "history", "insight", "intimidation",
		"investigation", "medicine", "nature", "perception",
		"performance", "persuasion", "religion", "sleightOfHand",
		"stealth", "survival",
	}

	statNames = []string{
		"initiative", "speed", "armorClass",
		"hitPointsCurrent", "hitPointsTotal", "hitPointsTemp",
	}

	basicInfoStrings = []string{
		"name", "race", "class", "alignment", "background", "playerName",
	}

	appearanceFields = []string{
		"age", "height", "weight", "eyes", "hair", "skin", "photo",
	}

	narrativeFields = []string{
		"personalityTraits", "ideals", "bonds", "flaws",
	}

	textFields = []string{
		"otherProficiencies", "languages", "characterBackstory", "notes",
	}
)

// Validate 对角色卡载荷做类型校验与宽松纠偏：
// 数字形式的字符串转成数字，外貌字段的数字转成字符串。
// 所有类型错误汇总后一次性返回，载荷不做部分应用。
func Validate(data map[string]any) []string {
	var errs []string

	// basicInfo
	if group := subMap(data, "basicInfo"); group != nil {
		if truthy(group["level"]) {
			group["level"] = coerceNumber(group["level"])
			if !isNumber(group["level"]) {
				errs = append(errs, "Level must be a number")
			}
		}
		for _, field := range basicInfoStrings {
			if truthy(group[field]) && !isString(group[field]) {
				errs = append(errs, field+" must be a string")
			}
		}
	}

	// abilities
	if group := subMap(data, "abilities"); group != nil {
		for _, ability := range abilityNames {
			errs = coerceNumberField(group, ability, ability, errs)
		}
	}

	// stats
	if group := subMap(data, "stats"); group != nil {
		for _, stat := range statNames {
			errs = coerceNumberField(group, stat, stat, errs)
		}
		if hitDice := subMap(group, "hitDice"); hitDice != nil {
			for _, field := range []string{"remaining", "diceType", "total"} {
				errs = coerceNumberField(hitDice, field, field, errs)
			}
		}
	}

	// savingThrows
	if group := subMap(data, "savingThrows"); group != nil {
		for _, ability := range abilityNames {
			save := subMap(group, ability)
			if save == nil {
				continue
			}
			errs = coerceNumberField(save, "value", ability, errs)
			if truthy(save["hasProficiency"]) && !isBool(save["hasProficiency"]) {
				errs = append(errs, "savingThrows."+ability+".hasProficiency must be a boolean")
			}
		}
	}

	// skills
	if group := subMap(data, "skills"); group != nil {
		for _, skill := range skillNames {
			entry := subMap(group, skill)
			if entry == nil {
				continue
			}
			errs = coerceNumberField(entry, "value", skill, errs)
			if truthy(entry["ability"]) && !isString(entry["ability"]) {
				errs = append(errs, "skills."+skill+".ability must be a string")
			}
			for _, flag := range []string{"hasProficiency", "hasExpertise"} {
				if truthy(entry[flag]) && !isBool(entry[flag]) {
					errs = append(errs, "skills."+skill+"."+flag+" must be a boolean")
				}
			}
		}
	}

	// deathSaves
	if group := subMap(data, "deathSaves"); group != nil {
		for _, save := range []string{"success", "failure"} {
			errs = coerceNumberField(group, save, save, errs)
		}
	}

	// inventory
	if group := subMap(data, "inventory"); group != nil {
		for _, field := range []string{"gold", "weight"} {
			errs = coerceNumberField(group, field, field, errs)
		}
	}

	// appearance（数字一律转成字符串）
	if group := subMap(data, "appearance"); group != nil {
		for _, field := range appearanceFields {
			if truthy(group[field]) {
				group[field] = coerceString(group[field])
				if !isString(group[field]) {
					errs = append(errs, field+" must be a string")
				}
			}
		}
	}

	// spellcasting
	if group := subMap(data, "spellcasting"); group != nil {
		for _, field := range []string{"spellcastingClass", "spellcastingAbility"} {
			if truthy(group[field]) && !isString(group[field]) {
				errs = append(errs, field+" must be a string")
			}
		}
		for _, field := range []string{"spellSaveDC", "spellAttackBonus"} {
			errs = coerceNumberField(group, field, field, errs)
		}
	}

	// spellSlots（level1..level9，每级为{current,total}对象）
	if group := subMap(data, "spellSlots"); group != nil {
		for i := 1; i <= 9; i++ {
			key := fmt.Sprintf("level%d", i)
			if !truthy(group[key]) {
				continue
			}
			slot := subMap(group, key)
			if slot == nil {
				errs = append(errs, "spellSlots."+key+" must be an object")
				continue
			}
			for _, field := range []string{"current", "total"} {
				errs = coerceNumberField(slot, field, "spellSlots."+key+"."+field, errs)
			}
		}
	}

	// 顶层数字字段
	for _, field := range []string{"passiveWisdom", "inspiration"} {
		if truthy(data[field]) {
			data[field] = coerceNumber(data[field])
			if !isNumber(data[field]) {
				errs = append(errs, field+" must be a number")
			}
		}
	}

	// 顶层字符串字段
	for _, field := range append(append([]string{}, textFields...), narrativeFields...) {
		if truthy(data[field]) && !isString(data[field]) {
			errs = append(errs, field+" must be a string")
		}
	}

	return errs
}

// subMap 取出子对象，非对象或空值返回nil
func subMap(data map[string]any, key string) map[string]any {
	if !truthy(data[key]) {
		return nil
	}
	m, ok := data[key].(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// coerceNumberField 对单个字段做数字纠偏与校验
func coerceNumberField(m map[string]any, field, label string, errs []string) []string {
	if !truthy(m[field]) {
		return errs
	}
	m[field] = coerceNumber(m[field])
	if !isNumber(m[field]) {
		errs = append(errs, label+" must be a number")
	}
	return errs
}

// truthy 判断值是否参与校验（零值与空串跳过）
func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case float64:
		return value != 0 && !math.IsNaN(value)
	case int:
		return value != 0
	case int64:
		return value != 0
	default:
		return true
	}
}

// coerceNumber 数字形式的字符串转成float64，其余原样返回
func coerceNumber(v any) any {
	if s, ok := v.(string); ok {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	}
	return v
}

// coerceString 数字转成字符串，其余原样返回
func coerceString(v any) any {
	switch value := v.(type) {
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return v
	}
}

// isNumber 判断是否为数字
func isNumber(v any) bool {
	switch value := v.(type) {
	case float64:
		return !math.IsNaN(value)
	case int, int64:
		return true
	default:
		return false
	}
}

// isString 判断是否为字符串
func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// isBool 判断是否为布尔值
func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}
