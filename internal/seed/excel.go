package seed

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/villagestay/villagestay/internal/models"
	"github.com/villagestay/villagestay/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SheetVillages       = "villages"
	SheetAccommodations = "accommodations"
	SheetCommunityPosts = "community_posts"
	SheetInternships    = "internships"
	SheetBookings       = "bookings"
	SheetKiranaStores   = "kirana_stores"
)

var headers = map[string][]string{
	SheetVillages: {"id", "name", "location", "short_description", "long_description", "main_image",
		"vr_images", "latitude", "longitude", "instagram_posts", "cultural_attractions", "unique_offerings"},
	SheetAccommodations: {"village_id", "name", "type", "description", "vr_images"},
	SheetCommunityPosts: {"village_id", "id", "author", "avatar_url", "message", "image_url", "video_url", "timestamp"},
	SheetInternships: {"id", "title", "village_id", "village_name", "category", "duration",
		"short_description", "long_description", "responsibilities", "benefits", "sdgs"},
	SheetBookings:     {"id", "village_name", "guest_name", "owner_id", "check_in", "check_out", "status"},
	SheetKiranaStores: {"id", "name", "village_name", "description"},
}

var sheetOrder = []string{
	SheetVillages, SheetAccommodations, SheetCommunityPosts,
	SheetInternships, SheetBookings, SheetKiranaStores,
}

// FromExcel reads a fixture workbook from disk.
func FromExcel(path string) (models.Fixtures, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return models.Fixtures{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return ReadExcel(f)
}

// ReadExcel converts a workbook into fixtures. The villages sheet is required;
// the others may be absent. Row one of every sheet is a header. Community posts
// are listed newest first within each village.
func ReadExcel(f *excelize.File) (models.Fixtures, error) {
	present := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		present[name] = true
	}
	if !present[SheetVillages] {
		return models.Fixtures{}, fmt.Errorf("workbook has no %q sheet", SheetVillages)
	}

	rows := func(sheet string) ([][]string, error) {
		if !present[sheet] {
			return nil, nil
		}
		all, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		if len(all) == 0 {
			return nil, nil
		}
		return all[1:], nil
	}

	var out models.Fixtures
	index := make(map[string]int)

	villageRows, err := rows(SheetVillages)
	if err != nil {
		return models.Fixtures{}, err
	}
	for i, row := range villageRows {
		if blank(row) {
			continue
		}
		lat, err := parseFloat(cell(row, 7))
		if err != nil {
			return models.Fixtures{}, rowError(SheetVillages, i, "latitude", err)
		}
		lng, err := parseFloat(cell(row, 8))
		if err != nil {
			return models.Fixtures{}, rowError(SheetVillages, i, "longitude", err)
		}
		v := models.Village{
			ID:                  utils.NormalizeID(cell(row, 0)),
			Name:                cell(row, 1),
			Location:            cell(row, 2),
			ShortDescription:    cell(row, 3),
			LongDescription:     cell(row, 4),
			MainImage:           cell(row, 5),
			VRImages:            utils.SplitList(cell(row, 6)),
			Coordinates:         models.Coordinates{Latitude: lat, Longitude: lng},
			InstagramPosts:      utils.SplitList(cell(row, 9)),
			CulturalAttractions: cell(row, 10),
			UniqueOfferings:     cell(row, 11),
			Accommodations:      []models.Accommodation{},
			CommunityPosts:      []models.CommunityPost{},
		}
		index[v.ID] = len(out.Villages)
		out.Villages = append(out.Villages, v)
	}

	accRows, err := rows(SheetAccommodations)
	if err != nil {
		return models.Fixtures{}, err
	}
	for i, row := range accRows {
		if blank(row) {
			continue
		}
		vi, ok := index[utils.NormalizeID(cell(row, 0))]
		if !ok {
			return models.Fixtures{}, rowError(SheetAccommodations, i, "village_id", fmt.Errorf("unknown village %q", cell(row, 0)))
		}
		out.Villages[vi].Accommodations = append(out.Villages[vi].Accommodations, models.Accommodation{
			Name:        cell(row, 1),
			Type:        cell(row, 2),
			Description: cell(row, 3),
			VRImages:    utils.SplitList(cell(row, 4)),
		})
	}

	postRows, err := rows(SheetCommunityPosts)
	if err != nil {
		return models.Fixtures{}, err
	}
	for i, row := range postRows {
		if blank(row) {
			continue
		}
		vi, ok := index[utils.NormalizeID(cell(row, 0))]
		if !ok {
			return models.Fixtures{}, rowError(SheetCommunityPosts, i, "village_id", fmt.Errorf("unknown village %q", cell(row, 0)))
		}
		var ts time.Time
		if raw := cell(row, 7); raw != "" {
			if ts, err = time.Parse(time.RFC3339, raw); err != nil {
				return models.Fixtures{}, rowError(SheetCommunityPosts, i, "timestamp", err)
			}
		}
		out.Villages[vi].CommunityPosts = append(out.Villages[vi].CommunityPosts, models.CommunityPost{
			ID:        cell(row, 1),
			Author:    cell(row, 2),
			AvatarURL: cell(row, 3),
			Message:   cell(row, 4),
			ImageURL:  cell(row, 5),
			VideoURL:  cell(row, 6),
			CreatedAt: ts,
		})
	}

	internRows, err := rows(SheetInternships)
	if err != nil {
		return models.Fixtures{}, err
	}
	for i, row := range internRows {
		if blank(row) {
			continue
		}
		sdgs, err := parseInts(cell(row, 10))
		if err != nil {
			return models.Fixtures{}, rowError(SheetInternships, i, "sdgs", err)
		}
		in := models.Internship{
			ID:               utils.NormalizeID(cell(row, 0)),
			Title:            cell(row, 1),
			VillageID:        utils.NormalizeID(cell(row, 2)),
			VillageName:      cell(row, 3),
			Category:         cell(row, 4),
			Duration:         cell(row, 5),
			ShortDescription: cell(row, 6),
			LongDescription:  cell(row, 7),
			Responsibilities: utils.SplitList(cell(row, 8)),
			Benefits:         utils.SplitList(cell(row, 9)),
			SDGs:             sdgs,
		}
		if in.VillageName == "" {
			if vi, ok := index[in.VillageID]; ok {
				in.VillageName = out.Villages[vi].Name
			}
		}
		out.Internships = append(out.Internships, in)
	}

	bookingRows, err := rows(SheetBookings)
	if err != nil {
		return models.Fixtures{}, err
	}
	for _, row := range bookingRows {
		if blank(row) {
			continue
		}
		out.Bookings = append(out.Bookings, models.Booking{
			ID:          cell(row, 0),
			VillageName: cell(row, 1),
			GuestName:   cell(row, 2),
			OwnerID:     cell(row, 3),
			CheckIn:     cell(row, 4),
			CheckOut:    cell(row, 5),
			Status:      cell(row, 6),
		})
	}

	storeRows, err := rows(SheetKiranaStores)
	if err != nil {
		return models.Fixtures{}, err
	}
	for _, row := range storeRows {
		if blank(row) {
			continue
		}
		out.KiranaStores = append(out.KiranaStores, models.KiranaStore{
			ID:          utils.NormalizeID(cell(row, 0)),
			Name:        cell(row, 1),
			VillageName: cell(row, 2),
			Description: cell(row, 3),
		})
	}

	if err := out.Validate(); err != nil {
		return models.Fixtures{}, fmt.Errorf("invalid fixtures: %w", err)
	}
	return out, nil
}

// WriteExcel renders fixtures into a new workbook in the layout ReadExcel expects.
// Applications are runtime state and are not written.
func WriteExcel(fx models.Fixtures) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, sheet := range sheetOrder {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		if err := writeRow(f, sheet, 1, toCells(headers[sheet])); err != nil {
			return nil, err
		}
	}

	next := map[string]int{}
	add := func(sheet string, values ...interface{}) error {
		next[sheet]++
		return writeRow(f, sheet, next[sheet]+1, values)
	}

	for _, v := range fx.Villages {
		if err := add(SheetVillages, v.ID, v.Name, v.Location, v.ShortDescription, v.LongDescription, v.MainImage,
			joinList(v.VRImages), v.Coordinates.Latitude, v.Coordinates.Longitude, joinList(v.InstagramPosts),
			v.CulturalAttractions, v.UniqueOfferings); err != nil {
			return nil, err
		}
		for _, a := range v.Accommodations {
			if err := add(SheetAccommodations, v.ID, a.Name, a.Type, a.Description, joinList(a.VRImages)); err != nil {
				return nil, err
			}
		}
		for _, p := range v.CommunityPosts {
			ts := ""
			if !p.CreatedAt.IsZero() {
				ts = p.CreatedAt.UTC().Format(time.RFC3339)
			}
			if err := add(SheetCommunityPosts, v.ID, p.ID, p.Author, p.AvatarURL, p.Message, p.ImageURL, p.VideoURL, ts); err != nil {
				return nil, err
			}
		}
	}
	for _, in := range fx.Internships {
		sdgs := make([]string, len(in.SDGs))
		for i, n := range in.SDGs {
			sdgs[i] = strconv.Itoa(n)
		}
		if err := add(SheetInternships, in.ID, in.Title, in.VillageID, in.VillageName, in.Category, in.Duration,
			in.ShortDescription, in.LongDescription, joinList(in.Responsibilities), joinList(in.Benefits),
			joinList(sdgs)); err != nil {
			return nil, err
		}
	}
	for _, b := range fx.Bookings {
		if err := add(SheetBookings, b.ID, b.VillageName, b.GuestName, b.OwnerID, b.CheckIn, b.CheckOut, b.Status); err != nil {
			return nil, err
		}
	}
	for _, k := range fx.KiranaStores {
		if err := add(SheetKiranaStores, k.ID, k.Name, k.VillageName, k.Description); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, addr, &values)
}

func toCells(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func joinList(items []string) string {
	return strings.Join(items, utils.ListSeparator)
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseInts(raw string) ([]int, error) {
	parts := utils.SplitList(raw)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// rowError reports a 1-based spreadsheet row, counting the header.
func rowError(sheet string, i int, column string, err error) error {
	return fmt.Errorf("sheet %s row %d column %s: %w", sheet, i+2, column, err)
}
