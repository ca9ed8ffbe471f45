// Package templates holds the templ components used to render notification
// emails, plus Render for turning a component into a string.
package templates
