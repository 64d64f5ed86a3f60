package notify

import (
	"fmt"
	"time"
)

// Invitation is a composed notification ready to send.
type Invitation struct {
	To      string
	Subject string
	Body    string
}

// Details carries everything the invitation templates need.
type Details struct {
	CandidateName  string
	CandidateEmail string
	CandidatePhone string
	ReviewerName   string
	ReviewerEmail  string
	PositionName   string
	StartTime      time.Time
}

const officeAddress = "Tầng 3, Tòa nhà JVPE, Đường số 13, Công viên phần mềm Quang Trung, Phường Trung Mỹ Tây, TP. HCM"

// CandidateInvitation composes the second-round invitation email for the
// candidate.
func CandidateInvitation(d Details) Invitation {
	subject := fmt.Sprintf("[ASOFT] Thư mời phỏng vấn chuyên sâu – %s", d.PositionName)
	body := fmt.Sprintf(`Thân chào %s,

Công ty Cổ phần ASOFT trân trọng mời Bạn tham dự buổi phỏng vấn vòng 2 cho vị trí %s theo thông tin sau:

- Thời gian: %s, ngày %s
- Hình thức: Offline tại văn phòng
- Địa điểm: %s

Buổi phỏng vấn vòng 2 sẽ được trực tiếp trao đổi cùng %s để đánh giá chuyên sâu hơn về kiến thức, kỹ năng cũng như sự phù hợp với công việc.

Bạn vui lòng phản hồi lại email này để xác nhận lịch hẹn.

Trân trọng,
Phòng Nhân sự – ASOFT
*** Lưu ý: Đây là email được gửi tự động từ AI Agent ***`,
		d.CandidateName, d.PositionName,
		d.StartTime.Format("15:04"), d.StartTime.Format("02/01/2006"),
		officeAddress, d.ReviewerName)

	return Invitation{To: d.CandidateEmail, Subject: subject, Body: body}
}

// ReviewerInvitation composes the schedule notification for the reviewer.
func ReviewerInvitation(d Details) Invitation {
	subject := fmt.Sprintf("[ASOFT] Thông báo lịch phỏng vấn ứng viên – %s", d.PositionName)
	body := fmt.Sprintf(`Kính gửi %s,

Phòng Nhân sự xin thông báo lịch phỏng vấn vòng 2 của ứng viên %s cho vị trí %s:

- Thời gian: %s, ngày %s
- Ứng viên: %s – Email: %s, SĐT: %s
- Hình thức: Offline tại văn phòng
- Địa điểm: %s

Đề nghị %s sắp xếp thời gian để tham gia phỏng vấn và đánh giá ứng viên.
Nếu có thay đổi hoặc cần hỗ trợ thêm, vui lòng phản hồi lại cho phòng Nhân sự.

Trân trọng,
Phòng Nhân sự – ASOFT
*** Lưu ý: Đây là email được gửi tự động từ AI Agent ***`,
		d.ReviewerName, d.CandidateName, d.PositionName,
		d.StartTime.Format("15:04"), d.StartTime.Format("02/01/2006"),
		d.CandidateName, d.CandidateEmail, d.CandidatePhone,
		officeAddress, d.ReviewerName)

	return Invitation{To: d.ReviewerEmail, Subject: subject, Body: body}
}
