// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemevent

import "fmt"

// Action is the interaction pathway that raised an event.
type Action uint8

const (
	Use Action = iota + 1
	Pickup
	InventoryClick
	InventoryDrag
	Drop
	Consume
	PlaceBlock
	// ContainerExtract is only raised for attribution denials.
	ContainerExtract
	// ContainerAccess is only raised for expired items found inside a
	// container when it is opened; the opener's own holdings swept at
	// the same time report PeriodicCheck.
	ContainerAccess
	PeriodicCheck
)

var actionNames = map[Action]string{
	Use:              "use",
	Pickup:           "pickup",
	InventoryClick:   "inventory_click",
	InventoryDrag:    "inventory_drag",
	Drop:             "drop",
	Consume:          "consume",
	PlaceBlock:       "place_block",
	ContainerExtract: "container_extract",
	ContainerAccess:  "container_access",
	PeriodicCheck:    "periodic_check",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// MarshalText encodes the action name.
func (a Action) MarshalText() ([]byte, error) {
	if _, ok := actionNames[a]; !ok {
		return nil, fmt.Errorf("unknown action %d", uint8(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction is the inverse of Action.String.
func ParseAction(name string) (Action, error) {
	for action, actionName := range actionNames {
		if actionName == name {
			return action, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// Actions returns every action in declaration order.
func Actions() []Action {
	return []Action{Use, Pickup, InventoryClick, InventoryDrag, Drop,
		Consume, PlaceBlock, ContainerExtract, ContainerAccess, PeriodicCheck}
}
