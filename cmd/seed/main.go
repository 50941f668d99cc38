// Seeds the database from the NYC Open Data arrest dataset. Fetches up to
// 50000 rows, stratified-samples an equal number per borough so dense
// boroughs do not dominate, transforms the raw fields to the stored schema,
// then creates test users and sample comments. Falls back to generated data
// when the API is unreachable.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"nycarrests/internal/config"
	"nycarrests/internal/database"
	"nycarrests/internal/model"
	"nycarrests/internal/refdata"
	"nycarrests/internal/repository"
)

const (
	apiURL            = "https://data.cityofnewyork.us/resource/uip8-fykc.json"
	fetchLimit        = 50000
	samplesPerBorough = 200
)

// rawArrestRecord is one row as the NYC Open Data API returns it. Every
// field arrives as a string.
type rawArrestRecord struct {
	ArrestDate     string `json:"arrest_date"`
	ArrestBoro     string `json:"arrest_boro"`
	ArrestPrecinct string `json:"arrest_precinct"`
	OfnsDesc       string `json:"ofns_desc"`
	LawCatCd       string `json:"law_cat_cd"`
	AgeGroup       string `json:"age_group"`
	PerpSex        string `json:"perp_sex"`
	PerpRace       string `json:"perp_race"`
	Latitude       string `json:"latitude"`
	Longitude      string `json:"longitude"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db := database.New(cfg)
	if err := db.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		closeCtx, cancelClose := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelClose()
		db.Close(closeCtx)
	}()
	log.Println("Connected to database")

	if err := db.Drop(ctx); err != nil {
		log.Fatalf("Failed to drop existing database: %v", err)
	}
	log.Println("Dropped existing database")

	log.Println("=== Step 1: Fetching arrest data from NYC Open Data API ===")
	raw := fetchArrestData(ctx)
	log.Printf("Fetched %d arrest records", len(raw))

	log.Println("=== Step 2: Performing stratified sampling ===")
	sampled := stratifiedSampleByBorough(raw, samplesPerBorough)
	log.Printf("Sampled %d records (%d per borough)", len(sampled), samplesPerBorough)

	log.Println("=== Step 3: Transforming and cleaning data ===")
	arrests := make([]model.Arrest, 0, len(sampled))
	for _, r := range sampled {
		arrests = append(arrests, transformArrestRecord(r))
	}

	log.Println("=== Step 4: Inserting arrests into database ===")
	arrestRepo := repository.NewArrestRepository(db)
	inserted, err := arrestRepo.InsertMany(ctx, arrests)
	if err != nil {
		log.Fatalf("Failed to insert arrests: %v", err)
	}
	total, err := arrestRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count arrests: %v", err)
	}
	log.Printf("Inserted %d arrest records, collection now holds %d", inserted, total)

	arrestIDs := make([]primitive.ObjectID, 0, len(arrests))
	for _, a := range arrests {
		arrestIDs = append(arrestIDs, a.ID)
	}

	log.Println("=== Step 5: Creating test users ===")
	userIDs := seedTestUsers(ctx, repository.NewUserRepository(db))

	log.Println("=== Step 6: Creating sample comments ===")
	seedSampleComments(ctx, repository.NewCommentRepository(db), userIDs, arrestIDs)

	log.Println("=== Done seeding database ===")
}

// fetchArrestData pulls rows from the open-data API, falling back to
// generated records when the request fails.
func fetchArrestData(ctx context.Context) []rawArrestRecord {
	url := fmt.Sprintf("%s?$limit=%d", apiURL, fetchLimit)
	log.Printf("Fetching data from: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("Error building API request: %v", err)
		return generateSampleData()
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("Error fetching data from API: %v", err)
		log.Println("Falling back to generated sample data...")
		return generateSampleData()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("API request failed: %s", resp.Status)
		log.Println("Falling back to generated sample data...")
		return generateSampleData()
	}

	var raw []rawArrestRecord
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		log.Printf("Error decoding API response: %v", err)
		log.Println("Falling back to generated sample data...")
		return generateSampleData()
	}
	if len(raw) == 0 {
		log.Println("No data received from API, falling back to generated sample data...")
		return generateSampleData()
	}
	return raw
}

// stratifiedSampleByBorough draws up to n records per borough so every
// borough is equally represented regardless of its share of the dataset.
func stratifiedSampleByBorough(data []rawArrestRecord, n int) []rawArrestRecord {
	byBorough := make(map[string][]rawArrestRecord)
	for _, r := range data {
		if refdata.IsBoroughCode(r.ArrestBoro) {
			byBorough[r.ArrestBoro] = append(byBorough[r.ArrestBoro], r)
		}
	}

	log.Println("Records per borough before sampling:")
	var samples []rawArrestRecord
	for _, code := range refdata.BoroughCodes() {
		records := byBorough[code]
		log.Printf("  %s: %d records", code, len(records))
		if len(records) == 0 {
			log.Printf("  Warning: No records found for borough %s", code)
			continue
		}
		samples = append(samples, randomSample(records, n)...)
	}
	return samples
}

// randomSample returns n records drawn without replacement (Fisher-Yates).
func randomSample(records []rawArrestRecord, n int) []rawArrestRecord {
	if len(records) <= n {
		return append([]rawArrestRecord(nil), records...)
	}
	shuffled := append([]rawArrestRecord(nil), records...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// transformArrestRecord maps a raw API row onto the stored schema, applying
// the same defaults the historical seed used for missing fields.
func transformArrestRecord(r rawArrestRecord) model.Arrest {
	arrest := model.Arrest{
		ID:                 primitive.NewObjectID(),
		ArrestDate:         r.ArrestDate,
		Borough:            strings.ToUpper(r.ArrestBoro),
		Precinct:           1,
		OffenseDescription: r.OfnsDesc,
		LawCategory:        lawCategoryFromCode(r.LawCatCd),
		AgeGroup:           r.AgeGroup,
		Gender:             strings.ToUpper(r.PerpSex),
		Race:               strings.ToUpper(r.PerpRace),
	}

	if arrest.ArrestDate == "" {
		arrest.ArrestDate = time.Now().UTC().Format("2006-01-02")
	}
	// The API returns dates as 2024-01-15T00:00:00.000; keep the date part.
	if len(arrest.ArrestDate) > 10 {
		arrest.ArrestDate = arrest.ArrestDate[:10]
	}
	if arrest.Borough == "" {
		arrest.Borough = "M"
	}
	if p, err := strconv.Atoi(r.ArrestPrecinct); err == nil && p >= 1 && p <= 123 {
		arrest.Precinct = p
	}
	if arrest.OffenseDescription == "" {
		arrest.OffenseDescription = "UNKNOWN OFFENSE"
	}
	if arrest.AgeGroup == "" {
		arrest.AgeGroup = "null"
	}
	if arrest.Gender == "" {
		arrest.Gender = "U"
	}
	if arrest.Race == "" {
		arrest.Race = "UNKNOWN"
	}
	if lat, err := strconv.ParseFloat(r.Latitude, 64); err == nil {
		arrest.ArrestLocation.Latitude = &lat
	}
	if lng, err := strconv.ParseFloat(r.Longitude, 64); err == nil {
		arrest.ArrestLocation.Longitude = &lng
	}
	return arrest
}

// lawCategoryFromCode maps the dataset's law_cat_cd codes (F/M/V) to the
// stored category names. Full names pass through lowercased.
func lawCategoryFromCode(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "F":
		return "felony"
	case "M":
		return "misdemeanor"
	case "V":
		return "violation"
	case "":
		return "misdemeanor"
	default:
		return strings.ToLower(strings.TrimSpace(code))
	}
}

// generateSampleData builds a realistic in-memory dataset large enough for
// stratified sampling when the API is unreachable.
func generateSampleData() []rawArrestRecord {
	log.Println("Generating sample data...")

	boroughs := refdata.BoroughCodes()
	offenses := []string{
		"ASSAULT 3", "PETIT LARCENY", "ROBBERY", "BURGLARY", "GRAND LARCENY",
		"CRIMINAL MISCHIEF", "DRUG POSSESSION", "DANGEROUS WEAPONS",
		"TRAFFIC VIOLATION", "HARASSMENT",
	}
	lawCategories := []string{"F", "M", "V"}
	ageGroups := []string{"<18", "18-24", "25-44", "45-64", "65+"}
	genders := []string{"M", "F"}
	races := []string{
		"WHITE", "BLACK", "WHITE HISPANIC", "BLACK HISPANIC",
		"ASIAN / PACIFIC ISLANDER", "AMERICAN INDIAN / ALASKAN NATIVE",
	}

	now := time.Now().UTC()
	records := make([]rawArrestRecord, 0, 10000)
	for i := 0; i < 10000; i++ {
		date := now.AddDate(0, 0, -rand.Intn(365))
		records = append(records, rawArrestRecord{
			ArrestDate:     date.Format("2006-01-02"),
			ArrestBoro:     boroughs[rand.Intn(len(boroughs))],
			ArrestPrecinct: strconv.Itoa(rand.Intn(123) + 1),
			OfnsDesc:       offenses[rand.Intn(len(offenses))],
			LawCatCd:       lawCategories[rand.Intn(len(lawCategories))],
			AgeGroup:       ageGroups[rand.Intn(len(ageGroups))],
			PerpSex:        genders[rand.Intn(len(genders))],
			PerpRace:       races[rand.Intn(len(races))],
			Latitude:       strconv.FormatFloat(40.5+rand.Float64()*0.4, 'f', 6, 64),
			Longitude:      strconv.FormatFloat(-74.3+rand.Float64()*0.6, 'f', 6, 64),
		})
	}
	return records
}

// seedTestUsers creates development accounts with bcrypt-hashed passwords.
func seedTestUsers(ctx context.Context, users repository.UserRepository) []primitive.ObjectID {
	accounts := []struct {
		username string
		email    string
		password string
	}{
		{"wenhuigao", "gwhb070802@gmail.com", "Wenhui2025!"},
		{"testuser", "test@example.com", "Password123!"},
		{"admin", "admin@example.com", "Admin123!"},
	}

	ids := make([]primitive.ObjectID, 0, len(accounts))
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", a.username, err)
		}
		user := model.User{
			Username:  a.username,
			Email:     a.email,
			Password:  string(hash),
			CreatedAt: time.Now().UTC(),
			Favorites: []string{},
			Comments:  []string{},
		}
		if err := users.Insert(ctx, &user); err != nil {
			log.Fatalf("Failed to insert test user %s: %v", a.username, err)
		}
		ids = append(ids, user.ID)
		log.Printf("  - %s", a.username)
	}
	log.Printf("Created %d test users", len(ids))
	return ids
}

// seedSampleComments attaches a handful of comments to the first few
// arrests, each from a random test user.
func seedSampleComments(ctx context.Context, comments repository.CommentRepository, userIDs, arrestIDs []primitive.ObjectID) {
	if len(userIDs) == 0 || len(arrestIDs) == 0 {
		log.Println("No users or arrests found, skipping comment seeding")
		return
	}

	texts := []string{
		"This is concerning for our neighborhood safety.",
		"I hope the authorities are taking appropriate action.",
		"We need more community policing in this area.",
		"Thanks for sharing this data.",
		"Important to stay informed about local crime.",
		"This highlights the need for better prevention programs.",
		"Glad to see transparency in law enforcement data.",
		"We should analyze these trends more carefully.",
		"Community awareness is key to improving safety.",
		"Appreciate the detailed information.",
	}

	n := len(texts)
	if len(arrestIDs) < n {
		n = len(arrestIDs)
	}

	created := 0
	for i := 0; i < n; i++ {
		now := time.Now().UTC()
		comment := model.Comment{
			UserID:    userIDs[rand.Intn(len(userIDs))],
			ArrestID:  arrestIDs[i],
			Text:      texts[i],
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := comments.Insert(ctx, &comment); err != nil {
			log.Fatalf("Failed to insert sample comment: %v", err)
		}
		created++
	}
	log.Printf("Created %d sample comments", created)
}
