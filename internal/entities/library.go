package entities

// Timestamps are stored as opaque, lexically ordered strings in the
// "2006-01-02 15:04:05.000000" layout (UTC).

type Member struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (Member) TableName() string { return "members" }

type Library struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	ManagerID int64  `json:"manager_id"`
}

func (Library) TableName() string { return "library" }

// Book is a catalog entry. Physical copies are tracked per library in LibraryBook.
type Book struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (Book) TableName() string { return "books" }

// LibraryBook records how many copies of a title a library holds.
type LibraryBook struct {
	LibraryID int64 `gorm:"primaryKey;autoIncrement:false" json:"library_id"`
	BookID    int64 `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	Quantity  int64 `json:"quantity"`
}

func (LibraryBook) TableName() string { return "library_books" }

// LibraryMember is the membership roster. Nothing writes to it yet.
type LibraryMember struct {
	LibraryID int64 `gorm:"primaryKey;autoIncrement:false" json:"library_id"`
	MemberID  int64 `gorm:"primaryKey;autoIncrement:false" json:"member_id"`
}

func (LibraryMember) TableName() string { return "library_members" }

// BorrowedBook is an open loan. Returning a book deletes the row.
type BorrowedBook struct {
	MemberID   int64  `gorm:"primaryKey;autoIncrement:false" json:"member_id"`
	BookID     int64  `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	BorrowedAt string `json:"borrowed_at"`
}

func (BorrowedBook) TableName() string { return "borrowed_books" }
