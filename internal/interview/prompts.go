package interview

import _ "embed"

//go:embed persona.md
var personaInstruction string

// Requests sent to the model. The model phrases the candidate-facing
// text, these stay internal.
const (
	reqIntro = "Hãy giới thiệu ngắn gọn bản thân là AI Agent phỏng vấn vòng 1 của ASOFT, chào ứng viên thân thiện và mời họ bắt đầu."

	reqContactIntake = "Hãy đặt một câu hỏi duy nhất, ngắn gọn và thân thiện, đề nghị ứng viên cung cấp HỌ TÊN, EMAIL và SỐ ĐIỆN THOẠI trong cùng một câu trả lời."

	reqClarifyName  = "Ứng viên chưa cung cấp họ tên. Hãy hỏi lại thật ngắn gọn, chỉ hỏi họ tên."
	reqClarifyEmail = "Ứng viên chưa cung cấp email. Hãy hỏi lại thật ngắn gọn, chỉ hỏi email."
	reqClarifyPhone = "Ứng viên chưa cung cấp số điện thoại. Hãy hỏi lại thật ngắn gọn, chỉ hỏi số điện thoại."

	reqAskPosition   = "Hãy hỏi ứng viên muốn ứng tuyển vị trí nào trong danh sách vừa hiển thị. Chỉ hỏi, không liệt kê lại."
	reqReaskPosition = "Câu trả lời chưa khớp vị trí nào trong danh sách. Hãy nhẹ nhàng đề nghị ứng viên chọn lại đúng một vị trí trong danh sách."

	reqAskLevel   = "Hãy hỏi ứng viên đang ở cấp độ nào: Fresher, Junior hay Senior. Chỉ hỏi, ngắn gọn."
	reqReaskLevel = "Câu trả lời chưa rõ cấp độ. Hãy nhẹ nhàng đề nghị ứng viên chọn một trong ba cấp độ: Fresher, Junior hoặc Senior."

	// Scoped to one question: ask verbatim, nothing else.
	reqAskQuestionFmt = "Hỏi ứng viên ngắn gọn, nguyên văn câu này, không thêm gợi ý hay giải thích: %s"

	reqFeedbackFmt = "Dựa trên nhận xét nội bộ sau, hãy phản hồi ứng viên một câu ngắn, khích lệ và trung thực. Tuyệt đối KHÔNG đặt câu hỏi tiếp theo. Nhận xét nội bộ: %s"

	reqPositionIntroFmt = "Hãy giới thiệu ngắn gọn (3-4 câu) cho ứng viên về vị trí %q: mô tả công việc và kỹ năng cần có, dựa trên thông tin sau.\nMô tả: %s\nKỹ năng: %s\nSau đó báo rằng phần hỏi chuyên môn sẽ bắt đầu."

	reqClosingFmt = "Buổi phỏng vấn vòng 1 đã kết thúc. Tổng điểm của ứng viên là %s/100 và kết quả là %s. Hãy cảm ơn ứng viên, thông báo kết quả một cách lịch sự và chúc họ may mắn. Không hứa hẹn gì ngoài thông tin trên."
)

// Messages printed directly, outside the model.
const (
	msgBanner = "=== AI Agent phỏng vấn ASOFT ==="

	msgModelTrouble = "Xin lỗi, hệ thống đang gặp sự cố kết nối. Bạn vui lòng quay lại sau nhé."

	msgContactGiveUp = "Rất tiếc, mình chưa nhận đủ thông tin liên hệ nên chưa thể tiếp tục buổi phỏng vấn. Hẹn gặp bạn lần sau nhé!"

	msgNoPositions = "Hiện tại ASOFT chưa có vị trí nào đang tuyển. Cảm ơn bạn đã quan tâm, hẹn gặp lại!"

	msgPositionsHeader = "Các vị trí ASOFT đang tuyển:"

	msgPositionGiveUp = "Mình chưa xác định được vị trí bạn muốn ứng tuyển nên chưa thể tiếp tục. Cảm ơn bạn và hẹn gặp lại!"

	msgLevelGiveUp = "Mình chưa xác định được cấp độ của bạn nên chưa thể tiếp tục. Cảm ơn bạn và hẹn gặp lại!"

	msgNoQuestions = "Hiện chưa có bộ câu hỏi cho vị trí và cấp độ này. ASOFT sẽ liên hệ với bạn sau. Cảm ơn bạn!"

	msgFeedbackPrefix = "→ Nhận xét tự động từ AI Agent: "

	msgNoReviewer = "Chúc mừng bạn đã vượt qua vòng 1! Hiện lịch của ban phỏng vấn đang kín, bộ phận tuyển dụng ASOFT sẽ liên hệ để sắp xếp vòng 2 trong thời gian sớm nhất."

	msgScheduledFmt = "Chúc mừng bạn đã vượt qua vòng 1! Lịch phỏng vấn vòng 2 với %s đã được gửi tới email %s. Hẹn gặp bạn!"

	msgFailClose = "Cảm ơn bạn đã dành thời gian cho buổi phỏng vấn. Đừng nản lòng nhé, ASOFT luôn chào đón bạn quay lại trong tương lai!"
)
