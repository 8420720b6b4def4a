package strategy

import (
	"fmt"
	"strings"
)

func planPrompt(goal, recipe string, tools, ingredients []string) string {
	var sb strings.Builder

	sb.WriteString("You are a professional chef. ")
	sb.WriteString(goal)
	fmt.Fprintf(&sb, " for: %s\n\n", recipe)

	fmt.Fprintf(&sb, "Available tools: %s\n", strings.Join(tools, ", "))
	fmt.Fprintf(&sb, "Available ingredients: %s\n\n", strings.Join(ingredients, ", "))

	sb.WriteString(`IMPORTANT CONSTRAINTS:
- You can ONLY use ingredients from the available ingredients list above
- Do NOT mention or use any ingredients not in the available list
- All ingredient names must EXACTLY match the available ingredients list

Provide exactly 4-6 HIGH-LEVEL cooking phases that focus on major cooking
techniques. Each step should represent ONE major phase or technique; assume
standard prep work is understood.

Format: Return ONLY a numbered list of 4-6 high-level steps, one per line.`)

	return sb.String()
}

func toolPrompt(step string, tools []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are selecting the ONE tool needed to complete this cooking step: %q\n\n", step)
	fmt.Fprintf(&sb, "Available tools: %s\n\n", strings.Join(tools, ", "))

	sb.WriteString(`DECISION RULES:
1. For PREP work (cutting, slicing, chopping, dicing) use cutting tools
2. For MIXING/COMBINING (whisking, beating, breading) use mixing tools
3. For COOKING with direct heat (pan-fry, saute, fry) use a skillet-class tool
4. For BAKING/ROASTING use an oven-class tool
5. For ASSEMBLY/TOPPING use a general-purpose tool

Return ONLY the exact tool name:`)

	return sb.String()
}

// ingredientsPrompt builds the ingredient-selection prompt. Only the steps
// strictly before stepIndex appear as context; the model must never see the
// current step's successors.
func ingredientsPrompt(step string, ingredients, plan []string, stepIndex int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Identify ONLY the ingredients that are actively used, handled, or manipulated in this specific cooking step: %q\n", step)

	if stepIndex > 0 && stepIndex <= len(plan) {
		sb.WriteString("\nCOOKING CONTEXT:\nSteps already completed: ")
		prior := make([]string, 0, stepIndex)
		for i, s := range plan[:stepIndex] {
			prior = append(prior, fmt.Sprintf("Step %d: %s", i+1, s))
		}
		sb.WriteString(strings.Join(prior, ", "))
		fmt.Fprintf(&sb, "\n\nCurrent step being executed: Step %d: %s\n", stepIndex+1, step)
	}

	fmt.Fprintf(&sb, "\nAvailable ingredients: %s\n\n", strings.Join(ingredients, ", "))

	sb.WriteString(`CRITICAL RULES:
1. ONLY include ingredients explicitly mentioned in THIS step
2. DO NOT include ingredients from previous steps unless named in this step
3. Ingredient names must EXACTLY match the available ingredients list

Return ONLY ingredients specifically mentioned in this step, separated by commas:`)

	return sb.String()
}
