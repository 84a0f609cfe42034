// Package docs Ecoleta Service API.
//
// Реестр пунктов сбора отходов: организации регистрируют пункты приема
// с координатами, контактами и набором принимаемых категорий, пользователи
// ищут пункты по штату, городу и категории.
//
// Основные возможности:
// - Регистрация пункта сбора с изображением (multipart/form-data)
// - Поиск пунктов по штату, городу и категориям
// - Справочник категорий с иконками
// - Справочник штатов и городов IBGE
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//	- multipart/form-data
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
