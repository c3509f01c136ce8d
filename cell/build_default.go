//go:build !purego

package cell

const puregoBuild = false
