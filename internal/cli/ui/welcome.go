package ui

import (
	"fmt"
	"io"
)

const Version = "0.1.0"

// PrintWelcome выводит приветствие и список команд
func PrintWelcome(w io.Writer, model string) {
	fmt.Fprintln(w, ColorBold+IconChart+" Review Analyzer v"+Version+ColorReset)
	fmt.Fprintln(w, ColorGray+"Сбор отзывов о товаре, очистка и сводка от модели"+ColorReset)
	fmt.Fprintln(w, ColorGray+"Модель: "+model+ColorReset)
	fmt.Fprintln(w)
	PrintHelp(w)
	fmt.Fprintln(w, ColorCyan+IconBulb+" Совет:"+ColorReset+" можно просто вставить ссылку на товар, это то же самое, что "+ColorYellow+"analyze <url>"+ColorReset)
	fmt.Fprintln(w)
	fmt.Fprintln(w, ColorGray+"⬆️ ⬇️"+ColorReset+" Используйте стрелки для навигации по истории команд")
	fmt.Fprintln(w)
}

// PrintHelp выводит список доступных команд
func PrintHelp(w io.Writer) {
	fmt.Fprintln(w, ColorYellow+IconList+" Доступные команды:"+ColorReset)
	fmt.Fprintln(w, "  "+ColorGreen+"analyze"+ColorReset+" <url> [pages] - Собрать и проанализировать отзывы")
	fmt.Fprintln(w, "  "+ColorGreen+"runs"+ColorReset+"                - Список запусков из архива")
	fmt.Fprintln(w, "  "+ColorGreen+"show"+ColorReset+" <id>           - Детали запуска")
	fmt.Fprintln(w, "  "+ColorGreen+"logs"+ColorReset+" <id>           - Запросы к модели для запуска")
	fmt.Fprintln(w, "  "+ColorGreen+"summarize"+ColorReset+" <текст>   - Сводка по произвольному тексту")
	fmt.Fprintln(w, "  "+ColorGreen+"clear"+ColorReset+"               - Очистить экран")
	fmt.Fprintln(w, "  "+ColorGreen+"help"+ColorReset+"                - Эта справка")
	fmt.Fprintln(w, "  "+ColorGreen+"exit"+ColorReset+"                - Выход")
	fmt.Fprintln(w)
}
