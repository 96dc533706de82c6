// Package extractor достает отзывы из отрендеренного HTML страницы.
package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"reviewAnalyzer/internal/models"
)

// Element - результат поиска одного элемента. Err заполнен, если
// элемент найден, но извлечь из него текст не удалось.
type Element struct {
	Text string
	Err  error
}

// ElementLocator находит все элементы одного вида на странице в порядке документа.
type ElementLocator interface {
	Locate(doc *goquery.Document) []Element
}

// ClassLocator ищет элементы по тегу и CSS-классу. Если задан Nested,
// текст берется из первого вложенного элемента с этим тегом.
type ClassLocator struct {
	Tag    string
	Class  string
	Nested string
}

func (l ClassLocator) Selector() string {
	if l.Class == "" {
		return l.Tag
	}
	return l.Tag + "." + l.Class
}

func (l ClassLocator) Locate(doc *goquery.Document) []Element {
	var elements []Element
	doc.Find(l.Selector()).Each(func(_ int, s *goquery.Selection) {
		if l.Nested == "" {
			elements = append(elements, Element{Text: strings.TrimSpace(s.Text())})
			return
		}

		inner := s.Find(l.Nested).First()
		if inner.Length() == 0 {
			elements = append(elements, Element{Err: fmt.Errorf("нет вложенного %s в %s", l.Nested, l.Selector())})
			return
		}
		elements = append(elements, Element{Text: strings.TrimSpace(inner.Text())})
	})
	return elements
}

// ParseClassLocator разбирает селектор вида "div.ZmyHeo" в ClassLocator.
func ParseClassLocator(selector, nested string) (ClassLocator, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return ClassLocator{}, fmt.Errorf("пустой селектор")
	}
	if strings.ContainsAny(selector, " >+~[]:#,") {
		return ClassLocator{}, fmt.Errorf("ожидается селектор вида tag.class, получен %q", selector)
	}

	tag, class, _ := strings.Cut(selector, ".")
	if tag == "" {
		return ClassLocator{}, fmt.Errorf("в селекторе %q нет тега", selector)
	}
	if strings.Contains(class, ".") {
		return ClassLocator{}, fmt.Errorf("поддерживается только один класс: %q", selector)
	}

	return ClassLocator{Tag: tag, Class: class, Nested: strings.TrimSpace(nested)}, nil
}

type Extractor struct {
	body   ElementLocator
	rating ElementLocator
	title  ElementLocator
	log    *zap.Logger
}

// DefaultLocators - маркеры разметки страницы отзывов по умолчанию.
func DefaultLocators() (body, rating, title ClassLocator) {
	return ClassLocator{Tag: "div", Class: "ZmyHeo", Nested: "div"},
		ClassLocator{Tag: "div", Class: "XQDdHH"},
		ClassLocator{Tag: "p", Class: "z9E0IG"}
}

func New(body, rating, title ElementLocator, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		body:   body,
		rating: rating,
		title:  title,
		log:    log,
	}
}

// NewDefault собирает Extractor с маркерами по умолчанию.
func NewDefault(log *zap.Logger) *Extractor {
	body, rating, title := DefaultLocators()
	return New(body, rating, title, log)
}

// Extract собирает записи со страницы. Рейтинг и заголовок сопоставляются
// с телом отзыва по индексу; при нехватке подставляется models.NotAvailable.
// Тела без вложенного контейнера пропускаются и учитываются в skipped.
func (e *Extractor) Extract(html string) (records []models.ReviewRecord, skipped int, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка разбора HTML: %w", err)
	}

	bodies := e.body.Locate(doc)
	ratings := e.rating.Locate(doc)
	titles := e.title.Locate(doc)

	records = make([]models.ReviewRecord, 0, len(bodies))
	for i, body := range bodies {
		if body.Err != nil {
			skipped++
			e.log.Warn("Отзыв пропущен", zap.Int("index", i), zap.Error(body.Err))
			continue
		}

		records = append(records, models.ReviewRecord{
			Rating: textAt(ratings, i),
			Title:  textAt(titles, i),
			Review: body.Text,
		})
	}

	e.log.Debug("Страница разобрана",
		zap.Int("bodies", len(bodies)),
		zap.Int("ratings", len(ratings)),
		zap.Int("titles", len(titles)),
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped),
	)

	return records, skipped, nil
}

func textAt(elements []Element, i int) string {
	if i >= len(elements) || elements[i].Err != nil {
		return models.NotAvailable
	}
	return elements[i].Text
}
