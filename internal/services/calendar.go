package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/talent-app/internal/models"
)

// CalendarService keeps collaboration-derived events consistent with their
// source collaboration.
type CalendarService struct {
	DB *gorm.DB
}

func NewCalendarService(db *gorm.DB) *CalendarService { return &CalendarService{DB: db} }

// PreviewTitle returns the display title of a preview event.
func PreviewTitle(marque string) string { return "Preview " + marque }

// PublicationTitle returns the display title of a publication event.
func PublicationTitle(marque string) string { return "Publication " + marque }

// legacyTitles lists every title under which a derived event may have been
// stored before events carried a collaboration reference, uppercase
// variants included.
func legacyTitles(marque string) []string {
	return []string{
		PreviewTitle(marque),
		PublicationTitle(marque),
		"PREVIEW " + marque,
		"PUBLICATION " + marque,
		"PREVIEW " + strings.ToUpper(marque),
		"PUBLICATION " + strings.ToUpper(marque),
	}
}

// Sync recomputes the derived events of a collaboration: existing derived
// events are removed, then one PREVIEW and/or one PUBLICATION event is
// recreated at 09:00–09:30 on the corresponding date. Calling it twice
// with the same dates leaves exactly one event per date.
func (s *CalendarService) Sync(ctx context.Context, c *models.Collaboration) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteDerived(tx, c); err != nil {
			return err
		}
		if c.DatePreview != nil {
			ev := derivedEvent(c, models.EventPreview, PreviewTitle(c.Marque), *c.DatePreview)
			if err := tx.Create(&ev).Error; err != nil {
				return err
			}
		}
		if c.DatePublication != nil {
			ev := derivedEvent(c, models.EventPublication, PublicationTitle(c.Marque), *c.DatePublication)
			if err := tx.Create(&ev).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Unsync removes the derived events of a deleted collaboration.
func (s *CalendarService) Unsync(ctx context.Context, c *models.Collaboration) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteDerived(tx, c)
	})
}

// deleteDerived removes events linked by reference, plus legacy rows that
// only a title match can identify.
func deleteDerived(tx *gorm.DB, c *models.Collaboration) error {
	if err := tx.Where("collaboration_id = ?", c.ID).Delete(&models.CalendarEvent{}).Error; err != nil {
		return err
	}
	return tx.Where("talent_id = ? AND collaboration_id IS NULL AND title IN ?", c.TalentID, legacyTitles(c.Marque)).
		Delete(&models.CalendarEvent{}).Error
}

func derivedEvent(c *models.Collaboration, eventType, title string, date time.Time) models.CalendarEvent {
	start := time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, date.Location())
	return models.CalendarEvent{
		TalentID:        c.TalentID,
		CollaborationID: &c.ID,
		Title:           title,
		Description:     fmt.Sprintf("Collaboration %s", c.Marque),
		Start:           start,
		End:             start.Add(30 * time.Minute),
		Type:            eventType,
	}
}
