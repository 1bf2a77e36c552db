// Package view главное окно приложения на walk. Собирается только под Windows.
package view
