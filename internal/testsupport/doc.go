// Package testsupport provides helpers shared by package tests.
package testsupport
