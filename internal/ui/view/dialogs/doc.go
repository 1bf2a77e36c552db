// Package dialogs содержит модальные окна главного окна приложения.
package dialogs
