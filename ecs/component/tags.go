package component

import "github.com/milk9111/danmaku/script"

// Enemy is a summoned enemy.
type Enemy struct {
	Name string
	HP   float32
}

var EnemyComponent = NewComponent[Enemy]()

// Bullet is a summoned bullet.
type Bullet struct {
	Name string
}

var BulletComponent = NewComponent[Bullet]()

// Collider is the shape used for arena culling and hit tests.
type Collider struct {
	Shape script.Collide
}

var ColliderComponent = NewComponent[Collider]()
