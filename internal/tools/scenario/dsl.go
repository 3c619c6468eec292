// Package scenario runs Lua-scripted play-throughs against an in-process
// session engine. Scripts build a Scenario value step by step and return
// it; the runner then replays the steps as driver intents.
package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a named sequence of scripted steps.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted intent or expectation.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs a Lua script and extracts the Scenario it
// returns.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerScenarioType(state)
	registerScenarioConstructor(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := validateScenario(scenario); err != nil {
		return nil, err
	}
	return scenario, nil
}

func validateScenario(scenario *Scenario) error {
	for i, step := range scenario.Steps {
		switch step.Kind {
		case "player":
			if requiredString(step.Args, "name") == "" {
				return fmt.Errorf("step %d: player name is required", i+1)
			}
		case "confirm_fact":
			if requiredString(step.Args, "answer") == "" {
				return fmt.Errorf("step %d: fact answer is required", i+1)
			}
		case "transition", "expect_state":
			if requiredString(step.Args, "state") == "" {
				return fmt.Errorf("step %d: state name is required", i+1)
			}
		case "submit":
			if requiredString(step.Args, "player") == "" {
				return fmt.Errorf("step %d: submitting player is required", i+1)
			}
		}
	}
	return nil
}

func requiredString(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return strings.TrimSpace(value)
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "player", Function: scenarioPlayer},
	{Name: "start_game", Function: scenarioStartGame},
	{Name: "go", Function: scenarioTransition},
	{Name: "confirm_fact", Function: scenarioConfirmFact},
	{Name: "pass_turn", Function: scenarioPassTurn},
	{Name: "start_module", Function: scenarioStartModule},
	{Name: "submit", Function: scenarioSubmit},
	{Name: "complete_module", Function: scenarioCompleteModule},
	{Name: "skip_module", Function: scenarioSkipModule},
	{Name: "end_act_if_due", Function: scenarioEndActIfDue},
	{Name: "reveal_hidden", Function: scenarioRevealHidden},
	{Name: "expect_state", Function: scenarioExpectState},
	{Name: "expect_score", Function: scenarioExpectScore},
	{Name: "expect_fact_count", Function: scenarioExpectFactCount},
	{Name: "expect_active", Function: scenarioExpectActive},
	{Name: "expect_round", Function: scenarioExpectRound},
}

func scenarioPlayer(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	opts := optionalTable(state, 3)
	data := map[string]any{"name": name}
	for key, value := range opts {
		data[key] = value
	}
	appendStep(scenario, "player", data)
	return returnScenario(state)
}

func scenarioStartGame(state *lua.State) int {
	scenario := checkScenario(state)
	opts := optionalTable(state, 2)
	appendStep(scenario, "start_game", opts)
	return returnScenario(state)
}

func scenarioTransition(state *lua.State) int {
	scenario := checkScenario(state)
	target := lua.CheckString(state, 2)
	appendStep(scenario, "transition", map[string]any{"state": target})
	return returnScenario(state)
}

func scenarioConfirmFact(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "confirm_fact", tableToMap(state, 2))
	return returnScenario(state)
}

func scenarioPassTurn(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "pass_turn", nil)
	return returnScenario(state)
}

func scenarioStartModule(state *lua.State) int {
	scenario := checkScenario(state)
	moduleID := lua.OptString(state, 2, "")
	appendStep(scenario, "start_module", map[string]any{"module": moduleID})
	return returnScenario(state)
}

func scenarioSubmit(state *lua.State) int {
	scenario := checkScenario(state)
	player := lua.CheckString(state, 2)
	answer := lua.CheckString(state, 3)
	appendStep(scenario, "submit", map[string]any{"player": player, "answer": answer})
	return returnScenario(state)
}

func scenarioCompleteModule(state *lua.State) int {
	scenario := checkScenario(state)
	opts := optionalTable(state, 2)
	appendStep(scenario, "complete_module", opts)
	return returnScenario(state)
}

func scenarioSkipModule(state *lua.State) int {
	scenario := checkScenario(state)
	reason := lua.OptString(state, 2, "")
	appendStep(scenario, "skip_module", map[string]any{"reason": reason})
	return returnScenario(state)
}

func scenarioEndActIfDue(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "end_act_if_due", nil)
	return returnScenario(state)
}

func scenarioRevealHidden(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "reveal_hidden", nil)
	return returnScenario(state)
}

func scenarioExpectState(state *lua.State) int {
	scenario := checkScenario(state)
	target := lua.CheckString(state, 2)
	appendStep(scenario, "expect_state", map[string]any{"state": target})
	return returnScenario(state)
}

func scenarioExpectScore(state *lua.State) int {
	scenario := checkScenario(state)
	player := lua.CheckString(state, 2)
	points := int(lua.CheckNumber(state, 3))
	appendStep(scenario, "expect_score", map[string]any{"player": player, "points": points})
	return returnScenario(state)
}

func scenarioExpectFactCount(state *lua.State) int {
	scenario := checkScenario(state)
	count := int(lua.CheckNumber(state, 2))
	appendStep(scenario, "expect_fact_count", map[string]any{"count": count})
	return returnScenario(state)
}

func scenarioExpectActive(state *lua.State) int {
	scenario := checkScenario(state)
	player := lua.CheckString(state, 2)
	appendStep(scenario, "expect_active", map[string]any{"player": player})
	return returnScenario(state)
}

func scenarioExpectRound(state *lua.State) int {
	scenario := checkScenario(state)
	round := int(lua.CheckNumber(state, 2))
	appendStep(scenario, "expect_round", map[string]any{"round": round})
	return returnScenario(state)
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

// returnScenario leaves the receiver on the stack so step calls chain.
func returnScenario(state *lua.State) int {
	state.PushValue(1)
	return 1
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if scenario == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
