package component

// Player marks the entity whose transform scripts see as player.x/y/z. Only
// the first one found is used.
type Player struct {
	Lives int
}

var PlayerComponent = NewComponent[Player]()
