package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionMode      = "mode"
	actionSymbol    = "sym"
	actionAnswer    = "answer"
	actionReference = "ref"
	actionReset     = "reset"
	actionMenu      = "menu"
	actionStats     = "stats"
)

// Answer sub-actions.
const (
	answerCompose = "compose"
	answerSubmit  = "submit"
	answerClear   = "clear"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or "" when absent.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildModeCallback builds callback data for switching the quiz mode.
func buildModeCallback(mode entities.Mode) string {
	return callbackData{Action: actionMode, Params: []string{mode.String()}}.encode()
}

// buildSymbolCallback refers to a glyph by its index in the symbol palette.
func buildSymbolCallback(index int) string {
	return callbackData{Action: actionSymbol, Params: []string{strconv.Itoa(index)}}.encode()
}

// parseSymbolCallback resolves the glyph carried by a sym callback.
func parseSymbolCallback(cd callbackData) (string, bool) {
	idx, err := strconv.Atoi(cd.param(0))
	if err != nil {
		return "", false
	}

	symbols := entities.Symbols()
	if idx < 0 || idx >= len(symbols) {
		return "", false
	}
	return symbols[idx], true
}

func buildAnswerCallback(subAction string) string {
	return callbackData{Action: actionAnswer, Params: []string{subAction}}.encode()
}

func buildReferenceCallback(mode entities.Mode) string {
	return callbackData{Action: actionReference, Params: []string{mode.String()}}.encode()
}

func buildMenuCallback() string {
	return actionMenu
}

func buildStatsCallback() string {
	return actionStats
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
