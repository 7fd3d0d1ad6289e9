package game

const (
	DefaultLives            = 3
	DefaultFruitBonus       = 50
	DefaultStationsPerGhost = 15 // one pursuer per this many stations, rounded up
	DefaultStationsPerFruit = 20 // one collectible per this many stations, rounded up
)
