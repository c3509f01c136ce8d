//go:build purego

package cell

const puregoBuild = true
