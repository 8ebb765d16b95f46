package seed

import (
	"time"

	"github.com/vasiliy-maslov/course-manager/internal/classroom"
	"github.com/vasiliy-maslov/course-manager/internal/tag"
)

const (
	tagMath     = "Matematyka"
	tagNature   = "Nauki Przyrodnicze"
	tagLaw      = "Nauki Prawnicze"
	tagImagined = "Nauki Urojone"
)

const (
	roomMain     = "4.40"
	roomA2       = "3.2"
	roomAudience = "2.41"
	roomLecture  = "5.13"
)

func sampleUsers() []UserSeed {
	return []UserSeed{
		// organizers
		NewUser("Mariusz", "Ważka", 50, "MariuszW@organizer.agh.edu.pl", "MatematykaDyskretnaJestNajlepsza!1!1!1!!", true),
		NewUser("Zbigniew", "Trzynoga", 45, "ZbigniewT@organizer.agh.edu.pl", "BardzoKochamPewnąPartię123", true),
		NewUser("Wacław", "Odwiertniczy", 44, "WacekO@organizer.agh.edu.pl", "KrosnoByłoLepsze321", true),
		NewUser("Walter", "White", 52, "WW@organizer.agh.edu.pl", "JesseWeNeedToCook555", true),
		NewUser("Saul", "Goodman", 48, "SaulG@organizer.agh.edu.pl", "AdwokatDiabłaAleTakiUWU", true),
		NewUser("Severus", "Snape", 35, "SevS@organizer.agh.edu.pl", "ZawszeLily2024", true),
		NewUser("Geralt", "ZRivii", 40, "Geralt@organizer.agh.edu.pl", "PłotkaNaWzgórzu42", true),
		NewUser("Franklin", "Underwood", 50, "Franek@organizer.agh.edu.pl", "LiczySięPomocNajsłabszym232", true),

		// participants
		NewUser("Piotr", "Kafelkowanie", 23, "Peter@gmail.com", "qwerty123", false),
		NewUser("Tomasz", "Wpiernicz", 21, "tomek@gmail.com", "mango123", false),
		NewUser("Piotr", "Barszczyk", 22, "barszczykp@gmail.com", "BarszczCzerwony2024", false),
		NewUser("Ewa", "Miszak", 25, "ewkaB@gmail.com", "IchLiebeDich223", false),
		NewUser("Piotr", "Żaba", 23, "peterZ@gmail.com", "qwerty123", false),
		NewUser("Dawid", "Zabor", 22, "dawid@gmail.com", "uwu123", false),
		NewUser("Włodzimierz", "Biały", 27, "wlodek@gmail.com", "zakopane555", false),
		NewUser("Waldemar", "Paker", 30, "waldek@gmail.com", "białkoToMojePaliwo323", false),
	}
}

func sampleClassrooms() []classroom.Classroom {
	return []classroom.Classroom{
		{ClassroomName: roomMain, Capacity: 60, Location: "D17 AGH Campus", Info: "Uwaga na niebezpieczną metyloaminę"},
		{ClassroomName: roomA2, Capacity: 40, Location: "A2 AGH Campus", Info: "None"},
		{ClassroomName: roomAudience, Capacity: 30, Location: "D17 AGH Campus", Info: "Sala audytoryjna"},
		{ClassroomName: roomLecture, Capacity: 60, Location: "Ceramiczka", Info: "Sala Wykładowa"},
	}
}

func sampleTags() []tag.Tag {
	return []tag.Tag{
		{Name: tagMath},
		{Name: tagNature},
		{Name: tagLaw},
		{Name: tagImagined},
	}
}

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// sampleEvents references users by email, classrooms by name and tags by name.
func sampleEvents() []EventSeed {
	return []EventSeed{
		{
			Name:            "Kurs Matematyki Dyskretnej Rozszerzony",
			StartDatetime:   at(2025, time.December, 11, 10, 30),
			EndDatetime:     at(2025, time.December, 11, 15, 30),
			MaxParticipants: 50,
			MinAge:          18,
			Info:            "Wymagane zaliczenie przedmiotu Matematyka Dyskretna",
			Organizer:       "MariuszW@organizer.agh.edu.pl",
			Classroom:       roomAudience,
			Tags:            []string{tagMath},
			Participants:    []string{"Peter@gmail.com", "tomek@gmail.com", "barszczykp@gmail.com", "ewkaB@gmail.com"},
		},
		{
			Name:            "Jak się nie narobić a zarobić",
			StartDatetime:   at(2025, time.February, 11, 12, 30),
			EndDatetime:     at(2025, time.December, 11, 16, 30),
			MaxParticipants: 50,
			MinAge:          18,
			Info:            "Trzeba być politykiem",
			Organizer:       "ZbigniewT@organizer.agh.edu.pl",
			Classroom:       roomLecture,
			Tags:            []string{tagLaw},
			Participants:    []string{"ewkaB@gmail.com", "barszczykp@gmail.com", "dawid@gmail.com", "wlodek@gmail.com"},
		},
		{
			Name:            "Rozwiązywanie Całki Rafonixa",
			StartDatetime:   at(2025, time.November, 11, 10, 30),
			EndDatetime:     at(2025, time.November, 11, 15, 30),
			MaxParticipants: 50,
			MinAge:          18,
			Info:            "Zrozumienie teorii względności",
			Organizer:       "WacekO@organizer.agh.edu.pl",
			Classroom:       roomAudience,
			Tags:            []string{tagMath},
			Participants:    []string{"Peter@gmail.com", "barszczykp@gmail.com"},
		},
		{
			Name:            "Gotowanie Mety",
			StartDatetime:   at(2025, time.September, 13, 10, 30),
			EndDatetime:     at(2025, time.September, 13, 20, 30),
			MaxParticipants: 50,
			MinAge:          18,
			Info:            "Knowing what is wire",
			Organizer:       "WW@organizer.agh.edu.pl",
			Classroom:       roomMain,
			Tags:            []string{tagNature},
			Participants:    []string{"Peter@gmail.com", "tomek@gmail.com", "peterZ@gmail.com"},
		},
		{
			Name:            "Kurs Matematyki Dyskretnej Rozszerzony",
			StartDatetime:   at(2025, time.August, 11, 10, 30),
			EndDatetime:     at(2025, time.August, 11, 15, 30),
			MaxParticipants: 50,
			MinAge:          18,
			Info:            "Wymagane zaliczenie przedmiotu Matematyka Dyskretna",
			Organizer:       "SaulG@organizer.agh.edu.pl",
			Classroom:       roomAudience,
			Tags:            []string{tagLaw},
			Participants:    []string{"Peter@gmail.com", "tomek@gmail.com", "barszczykp@gmail.com", "wlodek@gmail.com", "waldek@gmail.com"},
		},
		{
			Name:            "Tworzenie eliksirów",
			StartDatetime:   at(2025, time.June, 11, 10, 30),
			EndDatetime:     at(2025, time.June, 11, 15, 30),
			MaxParticipants: 50,
			MinAge:          18,
			Info:            "Oklumencja",
			Organizer:       "SevS@organizer.agh.edu.pl",
			Classroom:       roomAudience,
			Tags:            []string{tagImagined},
			Participants:    []string{"Peter@gmail.com", "tomek@gmail.com", "barszczykp@gmail.com", "wlodek@gmail.com"},
		},
		{
			Name:            "Zabijanie Strzyg",
			StartDatetime:   at(2025, time.August, 11, 8, 30),
			EndDatetime:     at(2025, time.August, 11, 15, 30), // demo set had 2024 here
			MaxParticipants: 50,
			MinAge:          18,
			Info:            "Kategoria A",
			Organizer:       "Geralt@organizer.agh.edu.pl",
			Classroom:       roomAudience,
			Tags:            []string{tagLaw},
			Participants:    []string{"Peter@gmail.com", "tomek@gmail.com", "barszczykp@gmail.com", "wlodek@gmail.com", "waldek@gmail.com"},
		},
		{
			Name:            "Jak być miłym w polityce",
			StartDatetime:   at(2025, time.December, 11, 13, 30),
			EndDatetime:     at(2025, time.December, 11, 15, 30), // demo set had 2024 here
			MaxParticipants: 50,
			MinAge:          18,
			Info:            "otwarte serce",
			Organizer:       "Franek@organizer.agh.edu.pl",
			Classroom:       roomAudience,
			Tags:            []string{tagLaw},
			Participants:    []string{"peterZ@gmail.com", "dawid@gmail.com", "barszczykp@gmail.com", "wlodek@gmail.com", "ewkaB@gmail.com"},
		},
	}
}
